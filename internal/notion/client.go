package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AdamSweetapple/garmin-to-notion/internal/config"
)

// Property names on the target database. These must match the Notion
// schema exactly, including case and spacing.
const (
	PropDate        = "Date"
	PropCaloriesIn  = "Calories In"
	PropCaloriesOut = "Calories Out (Exercise)"
	PropNetCalories = "Net Calories"
	PropProtein     = "Protein (g)"
	PropCarbs       = "Carbs (g)"
	PropFats        = "Fats (g)"
	PropWater       = "Water (ml)"
)

const (
	apiBaseURL = "https://api.notion.com"
	apiVersion = "2022-06-28"
	pageEmoji  = "🍎"
)

// Entry is one day's field set to be written to the database.
type Entry struct {
	Date        string
	CaloriesIn  int
	CaloriesOut int
	NetCalories int
	ProteinG    int
	CarbsG      int
	FatsG       int
	WaterML     int
}

// Record is the sync-relevant view of a stored nutrition page.
// Number properties missing from the page read as 0; HasWater reports
// whether the water property exists on the page at all, which the
// reconciler treats differently from a zero value.
type Record struct {
	PageID      string
	CaloriesIn  int
	CaloriesOut int
	NetCalories int
	ProteinG    int
	CarbsG      int
	FatsG       int
	WaterML     int
	HasWater    bool
}

// Client is an interface for the nutrition database in Notion.
type Client interface {
	FindByDate(ctx context.Context, date string) (*Record, error)
	CreateEntry(ctx context.Context, e Entry) error
	UpdateEntry(ctx context.Context, pageID string, e Entry) error
}

// notionClient is the concrete implementation of the Notion API client.
type notionClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	databaseID string
}

// NewClient creates a new Notion API client.
func NewClient(cfg *config.Config) Client {
	return &notionClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    apiBaseURL,
		token:      cfg.NotionToken,
		databaseID: cfg.NotionDatabaseID,
	}
}

type property struct {
	Number *float64   `json:"number,omitempty"`
	Date   *dateValue `json:"date,omitempty"`
}

type dateValue struct {
	Start string `json:"start"`
}

type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

type queryRequest struct {
	Filter dateFilter `json:"filter"`
}

type dateFilter struct {
	Property string        `json:"property"`
	Date     dateCondition `json:"date"`
}

type dateCondition struct {
	Equals string `json:"equals"`
}

type queryResponse struct {
	Results []page `json:"results"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type pageIcon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

type createPageRequest struct {
	Parent     pageParent          `json:"parent"`
	Properties map[string]property `json:"properties"`
	Icon       *pageIcon           `json:"icon,omitempty"`
}

type updatePageRequest struct {
	Properties map[string]property `json:"properties"`
}

// FindByDate queries the database with an exact-equality filter on the
// date property and returns the first match, or nil when none exists.
// The database has no uniqueness constraint; duplicates are not resolved.
func (c *notionClient) FindByDate(ctx context.Context, date string) (*Record, error) {
	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, c.databaseID)
	reqBody := queryRequest{
		Filter: dateFilter{Property: PropDate, Date: dateCondition{Equals: date}},
	}

	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, url, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return recordFromPage(resp.Results[0]), nil
}

// CreateEntry creates a new page for the entry's date with the full field
// set and the fixed page icon.
func (c *notionClient) CreateEntry(ctx context.Context, e Entry) error {
	url := fmt.Sprintf("%s/v1/pages", c.baseURL)
	reqBody := createPageRequest{
		Parent:     pageParent{DatabaseID: c.databaseID},
		Properties: e.properties(true),
		Icon:       &pageIcon{Type: "emoji", Emoji: pageEmoji},
	}
	if err := c.do(ctx, http.MethodPost, url, reqBody, nil); err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	return nil
}

// UpdateEntry rewrites the numeric fields of an existing page. The date
// property is never rewritten on update.
func (c *notionClient) UpdateEntry(ctx context.Context, pageID string, e Entry) error {
	url := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, pageID)
	reqBody := updatePageRequest{Properties: e.properties(false)}
	if err := c.do(ctx, http.MethodPatch, url, reqBody, nil); err != nil {
		return fmt.Errorf("failed to update page %s: %w", pageID, err)
	}
	return nil
}

func (c *notionClient) do(ctx context.Context, method, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody interface{}
		json.NewDecoder(resp.Body).Decode(&errBody)
		return fmt.Errorf("notion api error: status %d, body: %v", resp.StatusCode, errBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (e Entry) properties(includeDate bool) map[string]property {
	props := map[string]property{
		PropCaloriesIn:  number(e.CaloriesIn),
		PropCaloriesOut: number(e.CaloriesOut),
		PropNetCalories: number(e.NetCalories),
		PropProtein:     number(e.ProteinG),
		PropCarbs:       number(e.CarbsG),
		PropFats:        number(e.FatsG),
		PropWater:       number(e.WaterML),
	}
	if includeDate {
		props[PropDate] = property{Date: &dateValue{Start: e.Date}}
	}
	return props
}

func number(v int) property {
	f := float64(v)
	return property{Number: &f}
}

func recordFromPage(p page) *Record {
	rec := &Record{
		PageID:      p.ID,
		CaloriesIn:  numberValue(p.Properties, PropCaloriesIn),
		CaloriesOut: numberValue(p.Properties, PropCaloriesOut),
		NetCalories: numberValue(p.Properties, PropNetCalories),
		ProteinG:    numberValue(p.Properties, PropProtein),
		CarbsG:      numberValue(p.Properties, PropCarbs),
		FatsG:       numberValue(p.Properties, PropFats),
	}
	water, ok := p.Properties[PropWater]
	rec.HasWater = ok
	if ok && water.Number != nil {
		rec.WaterML = int(*water.Number)
	}
	return rec
}

// numberValue reads a number property, treating a missing property or an
// empty value as 0.
func numberValue(props map[string]property, name string) int {
	p, ok := props[name]
	if !ok || p.Number == nil {
		return 0
	}
	return int(*p.Number)
}
