package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"faqbot/internal/domain"
)

// Load reads a JSON corpus file containing an array of
// {"question": ..., "answer": ...} objects.
func Load(path string) ([]domain.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var entries []domain.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("corpus %s contains no entries", path)
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Question) == "" {
			return nil, fmt.Errorf("corpus entry %d has an empty question", i)
		}
		if strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("corpus entry %d has an empty answer", i)
		}
	}
	return entries, nil
}
