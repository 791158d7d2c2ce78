package wallet

import (
	"context"
	"time"

	"github.com/zuri-pay/zuri_pay/internal/ledger"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

var acceptedLayouts = []string{layoutDateTime, layoutDate}

// HistoryFilter narrows a wallet's ledger history to a single calendar day
// (Date) or a closed date range (StartDate/EndDate). All fields optional.
type HistoryFilter struct {
	Date      string
	StartDate string
	EndDate   string
}

// FilteredHistory returns the wallet's ledger entries within the resolved
// interval, ordered by timestamp ascending.
func (s *Service) FilteredHistory(ctx context.Context, walletID string, filter HistoryFilter) ([]ledger.Entry, error) {
	if _, err := s.store.Get(ctx, walletID); err != nil {
		return nil, err
	}

	from, to, err := filter.resolve()
	if err != nil {
		return nil, err
	}

	return s.ledger.Query(ctx, walletID, from, to)
}

func (f HistoryFilter) resolve() (*time.Time, *time.Time, error) {
	if f.Date != "" {
		parsed, _, err := parseFilterTime(f.Date)
		if err != nil {
			return nil, nil, err
		}
		start := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		end := start.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		return &start, &end, nil
	}

	var from, to *time.Time
	if f.StartDate != "" {
		parsed, _, err := parseFilterTime(f.StartDate)
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if f.EndDate != "" {
		parsed, dateOnly, err := parseFilterTime(f.EndDate)
		if err != nil {
			return nil, nil, err
		}
		if dateOnly {
			// A bare end date means the whole of that day is included.
			parsed = parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
		to = &parsed
	}

	if from != nil && to != nil && from.After(*to) {
		return nil, nil, ErrInvalidDateRange
	}
	return from, to, nil
}

func parseFilterTime(value string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(layoutDateTime, value, time.UTC); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation(layoutDate, value, time.UTC); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, &DateFormatError{Value: value, Accepted: acceptedLayouts}
}
