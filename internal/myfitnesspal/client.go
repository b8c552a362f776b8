package myfitnesspal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// ErrNoData is returned when the diary has no logged entries for a date.
var ErrNoData = errors.New("no diary data for date")

// DayTotals holds the raw nutrition sums parsed from one diary day.
// Values are unrounded; missing cells count as 0.
type DayTotals struct {
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	ExerciseBurn float64
}

// Client is an interface for reading one day's data from MyFitnessPal.
type Client interface {
	DayTotals(ctx context.Context, date string) (*DayTotals, error)
	Water(ctx context.Context, date string) (float64, error)
}

// mfpClient is the concrete implementation backed by the diary web pages
// and the water endpoint.
type mfpClient struct {
	httpClient *http.Client
	baseURL    string
	cookie     string
	limiter    *rate.Limiter
}

// NewClient creates a MyFitnessPal client using a previously acquired
// session cookie.
func NewClient(baseURL, cookie string) Client {
	return &mfpClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookie:     cookie,
		// One request every 500ms keeps the scraper polite.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

func (c *mfpClient) get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("provider error: status %d", resp.StatusCode)
	}
	return resp, nil
}

// DayTotals fetches the diary page for a date and sums the logged food
// totals and the calories burned across all exercise entries.
func (c *mfpClient) DayTotals(ctx context.Context, date string) (*DayTotals, error) {
	url := fmt.Sprintf("%s/food/diary?date=%s", c.baseURL, date)
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse diary page: %w", err)
	}
	return parseDiary(doc)
}

func parseDiary(doc *goquery.Document) (*DayTotals, error) {
	totalsRow := doc.Find("table#diary-table tr.total").First()
	if totalsRow.Length() == 0 {
		return nil, ErrNoData
	}

	totals := &DayTotals{}
	cells := totalsRow.Find("td")
	// Diary column order: label, calories, carbs, fat, protein.
	totals.Calories = cellNumber(cells.Eq(1))
	totals.Carbs = cellNumber(cells.Eq(2))
	totals.Fat = cellNumber(cells.Eq(3))
	totals.Protein = cellNumber(cells.Eq(4))

	doc.Find("table#exercise-diary tbody tr").Each(func(_ int, row *goquery.Selection) {
		totals.ExerciseBurn += cellNumber(row.Find("td.calories").First())
	})

	return totals, nil
}

// cellNumber parses a numeric table cell, tolerating thousands separators
// and trailing units. Missing or malformed cells count as 0.
func cellNumber(sel *goquery.Selection) float64 {
	text := strings.ReplaceAll(strings.TrimSpace(sel.Text()), ",", "")
	if i := strings.IndexFunc(text, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	}); i >= 0 {
		text = text[:i]
	}
	if text == "" {
		return 0
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return n
}

// waterResponse mirrors the water endpoint's JSON body.
type waterResponse struct {
	Milliliters float64 `json:"milliliters"`
}

// Water fetches the day's logged water intake in milliliters.
func (c *mfpClient) Water(ctx context.Context, date string) (float64, error) {
	url := fmt.Sprintf("%s/food/water/%s", c.baseURL, date)
	resp, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var water waterResponse
	if err := json.NewDecoder(resp.Body).Decode(&water); err != nil {
		return 0, fmt.Errorf("failed to decode water response: %w", err)
	}
	return water.Milliliters, nil
}
