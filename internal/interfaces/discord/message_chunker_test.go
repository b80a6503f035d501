package discord

import (
	"strings"
	"testing"
)

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	chunks := Chunk("hello world", 1900)
	if len(chunks) != 1 || chunks[0] != "hello world" {
		t.Errorf("expected single untouched chunk, got %v", chunks)
	}
}

func TestChunk_PrefersLineBoundaries(t *testing.T) {
	text := strings.Repeat("0123456789\n", 30) // 11 bytes per line
	chunks := Chunk(strings.TrimRight(text, "\n"), 50)

	for i, c := range chunks {
		if len(c) > 50 {
			t.Errorf("chunk %d exceeds limit: %d bytes", i, len(c))
		}
		for _, line := range strings.Split(c, "\n") {
			if line != "0123456789" {
				t.Errorf("chunk %d split mid-line: %q", i, line)
			}
		}
	}
}

func TestChunk_OversizedLineHardSplit(t *testing.T) {
	text := "a\n" + strings.Repeat("b", 3000)
	chunks := Chunk(text, 1900)

	// "a" flushed on its own, then ⌈3000/1900⌉ = 2 slices of the long line
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0] != "a" {
		t.Errorf("first chunk should be the short line, got %q", chunks[0])
	}
	if len(chunks[1]) != 1900 {
		t.Errorf("hard slice should be exactly 1900 bytes, got %d", len(chunks[1]))
	}
	if len(chunks[2]) != 1100 {
		t.Errorf("remainder should be 1100 bytes, got %d", len(chunks[2]))
	}
}

func TestChunk_EveryChunkWithinLimit(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 1000),
		strings.Repeat("line\n", 1000),
		strings.Repeat("x", 10000),
		"short",
		"a\n\n\nb",
	}
	for _, maxLen := range []int{1, 10, 100, 1900} {
		for _, input := range inputs {
			chunks := Chunk(input, maxLen)
			if len(chunks) == 0 {
				t.Fatalf("Chunk(%d bytes, %d) returned no chunks", len(input), maxLen)
			}
			for i, c := range chunks {
				if len(c) > maxLen {
					t.Errorf("maxLen=%d: chunk %d has %d bytes", maxLen, i, len(c))
				}
			}
		}
	}
}

func TestChunk_IdempotentOnValidChunk(t *testing.T) {
	text := strings.Repeat("some sentence here\n", 500)
	chunks := Chunk(text, 1900)

	for i, c := range chunks {
		again := Chunk(c, 1900)
		if len(again) != 1 || again[0] != c {
			t.Errorf("re-chunking chunk %d changed it", i)
		}
	}
}

func TestChunk_WhitespaceOnlyFallback(t *testing.T) {
	text := strings.Repeat("\n", 50)
	chunks := Chunk(text, 10)
	if len(chunks) != 1 {
		t.Fatalf("expected the fallback single chunk, got %d", len(chunks))
	}
	if len(chunks[0]) != 10 {
		t.Errorf("fallback chunk should be the first 10 bytes, got %d", len(chunks[0]))
	}
}
