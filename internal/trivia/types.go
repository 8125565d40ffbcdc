package trivia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// QuestionsPerPage is the fixed page size for paginated question listings.
const QuestionsPerPage = 10

// AllCategoriesType is the quiz category type the client sends for "all categories".
const AllCategoriesType = "click"

// Question is a stored trivia item. Its JSON form is the formatted question payload.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	Category   int    `json:"category"`
}

// Category is read-only reference data owned by migrations.
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// NewQuestion carries the fields of a question before the store assigns an id.
type NewQuestion struct {
	Question   string
	Answer     string
	Difficulty int
	Category   int
}

// FlexInt decodes a JSON number or a numeric JSON string into an int.
// Clients send category ids both ways.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("not an integer: %q", raw)
	}
	*f = FlexInt(n)
	return nil
}

// QuizCategory is the client-supplied quiz filter.
type QuizCategory struct {
	Type string  `json:"type"`
	ID   FlexInt `json:"id"`
}

// All reports whether the filter selects every category.
func (q QuizCategory) All() bool {
	return q.Type == AllCategoriesType || q.ID == 0
}

// CategoryMap renders categories as the id -> type mapping used in responses.
func CategoryMap(categories []Category) map[int]string {
	m := make(map[int]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}

// QuestionPage is the result of a paginated listing.
type QuestionPage struct {
	Questions  []Question
	Total      int
	Categories []Category
}

// DeleteResult describes the state after a delete.
type DeleteResult struct {
	Deleted   int
	Questions []Question
	Total     int
}

// SearchResult holds matches of a search term.
type SearchResult struct {
	Questions  []Question
	Categories []int
}
