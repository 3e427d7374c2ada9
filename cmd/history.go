package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// historyFile lives alongside the index artifacts.
	historyFile = "history.json"

	// historyShowLimit is how many recent exchanges `eca ask --history` shows.
	historyShowLimit = 5
)

// historyEntry records one question/answer exchange.
type historyEntry struct {
	Question   string    `json:"question" yaml:"question"`
	Answer     string    `json:"answer" yaml:"answer"`
	Confidence string    `json:"confidence" yaml:"confidence"`
	AskedAt    time.Time `json:"asked_at" yaml:"asked_at"`
}

func historyPath(dir string) string {
	return filepath.Join(dir, historyFile)
}

// loadHistory reads the conversation history. A missing file is an empty
// history, not an error.
func loadHistory(dir string) ([]historyEntry, error) {
	data, err := os.ReadFile(historyPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}
	var entries []historyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing history: %w", err)
	}
	return entries, nil
}

// appendHistory adds one exchange to the history file.
func appendHistory(dir string, e historyEntry) error {
	entries, err := loadHistory(dir)
	if err != nil {
		return err
	}
	entries = append(entries, e)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := os.WriteFile(historyPath(dir), data, 0o600); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// lastEntries returns the most recent n entries, oldest first.
func lastEntries(entries []historyEntry, n int) []historyEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
