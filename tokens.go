package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer counts tokens in file content. Implementations wrap tiktoken or
// a HuggingFace tokenizer.
type Tokenizer interface {
	CountTokens(text string) int
	Close()
}

const (
	defaultTiktokenModel = "gpt-4o"
	defaultHFModel       = "gpt2"
)

type tiktokenWrapper struct {
	ttk *tiktoken.Tiktoken
}

func (w *tiktokenWrapper) CountTokens(text string) int {
	if w.ttk == nil {
		return 0
	}
	return len(w.ttk.EncodeOrdinary(text))
}

func (w *tiktokenWrapper) Close() {}

type hfTokenizerWrapper struct {
	htk *hf.Tokenizer
}

func (w *hfTokenizerWrapper) CountTokens(text string) int {
	if w.htk == nil {
		return 0
	}
	en, err := w.htk.EncodeSingle(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tokenizer failed to encode text: %v\n", err)
		return 0
	}
	return len(en.Tokens)
}

func (w *hfTokenizerWrapper) Close() {}

// getTokenizer builds the tokenizer selected by the --tokenizer, --model and
// --tokenizer-file flags. An unknown tiktoken model falls back to the default
// encoding; an unknown tokenizer type is an error.
func getTokenizer() (Tokenizer, error) {
	switch strings.ToLower(tokenizerType) {
	case "tiktoken":
		model := tokenizerModel
		if model == "" {
			model = defaultTiktokenModel
		}
		tke, err := tiktoken.EncodingForModel(model)
		if err != nil && model != defaultTiktokenModel {
			fmt.Fprintf(os.Stderr, "Warning: no tiktoken encoding for %q, counting with %s instead\n", model, defaultTiktokenModel)
			tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		}
		if err != nil {
			return nil, fmt.Errorf("tiktoken encoding for %s: %w", model, err)
		}
		return &tiktokenWrapper{ttk: tke}, nil

	case "huggingface":
		path := tokenizerFile
		if path == "" {
			model := tokenizerModel
			if model == "" {
				model = defaultHFModel
			}
			fmt.Fprintf(os.Stderr, "Resolving tokenizer.json for %s (first use may download it)\n", model)
			cached, err := hf.CachedPath(model, "tokenizer.json")
			if err != nil {
				return nil, fmt.Errorf("locating tokenizer for %s: %w", model, err)
			}
			path = cached
		}
		ttk, err := pretrained.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading tokenizer from %s: %w", path, err)
		}
		return &hfTokenizerWrapper{htk: ttk}, nil

	default:
		return nil, fmt.Errorf("unknown tokenizer %q (want tiktoken or huggingface)", tokenizerType)
	}
}

// countRecordTokens fills in the Tokens field of every record by reading each
// file once more. Counting is sequential; per-file read failures are warned
// and leave the count at zero.
func countRecordTokens(root string, records []FileRecord, tk Tokenizer) {
	for i := range records {
		path := filepath.Join(root, filepath.FromSlash(records[i].Path))
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read %s for token counting: %v\n", path, err)
			continue
		}
		if len(content) > 0 {
			records[i].Tokens = tk.CountTokens(string(content))
		}
	}
}
