//go:build onnx

package onnx

import (
	"encoding/json"
	"os"
	"strings"
)

// BERT special token IDs shared by the MiniLM tokenizer family.
const (
	unkTokenID = 100
	clsTokenID = 101
	sepTokenID = 102
)

// wordPieceTokenizer is a minimal BERT WordPiece tokenizer backed by the
// vocab section of a HuggingFace tokenizer.json. It lowercases, strips
// edge punctuation, and falls back to [UNK] for unmatchable spans.
type wordPieceTokenizer struct {
	vocab map[string]int
}

func loadTokenizer(path string) (*wordPieceTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Model struct {
			Vocab map[string]int `json:"vocab"`
		} `json:"model"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &wordPieceTokenizer{vocab: file.Model.Vocab}, nil
}

// Encode produces fixed-length input_ids and attention_mask slices with
// [CLS] and [SEP] framing, truncating the token stream to fit.
func (t *wordPieceTokenizer) Encode(text string, maxLen int) (inputIDs, attentionMask []int64) {
	tokens := t.tokenize(text)

	inputIDs = make([]int64, maxLen)
	attentionMask = make([]int64, maxLen)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1

	n := len(tokens)
	if n > maxLen-2 {
		n = maxLen - 2
	}
	for i := 0; i < n; i++ {
		inputIDs[i+1] = tokens[i]
		attentionMask[i+1] = 1
	}

	inputIDs[n+1] = sepTokenID
	attentionMask[n+1] = 1
	return inputIDs, attentionMask
}

func (t *wordPieceTokenizer) tokenize(text string) []int64 {
	var out []int64
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if word == "" {
			continue
		}
		if id, ok := t.vocab[word]; ok {
			out = append(out, int64(id))
			continue
		}
		out = append(out, t.splitWordPiece(word)...)
	}
	return out
}

// splitWordPiece greedily matches the longest vocab prefix, prefixing
// continuations with "##" per the WordPiece convention.
func (t *wordPieceTokenizer) splitWordPiece(word string) []int64 {
	var out []int64
	start := 0
	for start < len(word) {
		matched := false
		for end := len(word); end > start; end-- {
			piece := word[start:end]
			if start > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				out = append(out, int64(id))
				start = end
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, unkTokenID)
			start++
		}
	}
	return out
}
