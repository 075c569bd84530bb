package client

import (
	"context"
	"strings"
	"sync"

	"github.com/yeremiapane/facilities-app/models"
)

// Filter narrows a loaded query list. Active facets compose with AND; a
// zero-value facet matches everything. Search matches title and description
// case-insensitively.
type Filter struct {
	Search   string
	Category string
	Priority string
	Status   string
}

func (f Filter) Matches(q models.Query) bool {
	if f.Status != "" && q.Status != f.Status {
		return false
	}
	if f.Category != "" && q.Category != f.Category {
		return false
	}
	if f.Priority != "" && q.Priority != f.Priority {
		return false
	}
	if f.Search != "" && !matchText(f.Search, q.Title, q.Description) {
		return false
	}
	return true
}

func matchText(search string, fields ...string) bool {
	needle := strings.ToLower(search)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func FilterQueries(queries []models.Query, f Filter) []models.Query {
	out := make([]models.Query, 0, len(queries))
	for _, q := range queries {
		if f.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}

// FilterUsers narrows a user list by free-text search over name and email
// and an optional exact role.
func FilterUsers(users []models.User, search, role string) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if role != "" && u.Role != role {
			continue
		}
		if search != "" && !matchText(search, u.Name, u.Email) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// FilterVenues narrows a venue list by free-text search over name, location
// and building and an optional exact type.
func FilterVenues(venues []models.Venue, search, venueType string) []models.Venue {
	out := make([]models.Venue, 0, len(venues))
	for _, v := range venues {
		if venueType != "" && v.Type != venueType {
			continue
		}
		if search != "" && !matchText(search, v.Name, v.Location, v.Building) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Stats summarizes a query list per status. It is always computed over the
// full loaded collection, not the filtered view.
type Stats struct {
	Total      int
	Pending    int
	Assigned   int
	InProgress int
	Resolved   int
	Closed     int
}

func ComputeStats(queries []models.Query) Stats {
	stats := Stats{Total: len(queries)}
	for _, q := range queries {
		switch q.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusAssigned:
			stats.Assigned++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusResolved:
			stats.Resolved++
		case models.StatusClosed:
			stats.Closed++
		}
	}
	return stats
}

// QueryBoard holds the loaded query collection behind a dashboard view. Every
// mutation goes to the server first and the local list is reconciled from the
// server's response; a failed call leaves the list untouched and records the
// error for display.
type QueryBoard struct {
	client *Client

	mu      sync.Mutex
	queries []models.Query
	lastErr string
	loaded  bool
}

func NewQueryBoard(c *Client) *QueryBoard {
	return &QueryBoard{client: c}
}

// Refresh replaces the collection with the server's current list.
func (b *QueryBoard) Refresh(ctx context.Context) error {
	queries, err := b.client.ListQueries(ctx)
	if err != nil {
		b.fail(err)
		return err
	}

	b.mu.Lock()
	b.queries = queries
	b.lastErr = ""
	b.loaded = true
	b.mu.Unlock()
	return nil
}

// Queries returns a copy of the loaded collection.
func (b *QueryBoard) Queries() []models.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Query, len(b.queries))
	copy(out, b.queries)
	return out
}

// Visible applies the filter to the loaded collection.
func (b *QueryBoard) Visible(f Filter) []models.Query {
	return FilterQueries(b.Queries(), f)
}

// Stats counts the full loaded collection regardless of any active filter.
func (b *QueryBoard) Stats() Stats {
	return ComputeStats(b.Queries())
}

// Err returns the message of the last failed operation, cleared by the next
// successful one.
func (b *QueryBoard) Err() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *QueryBoard) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// Delete removes a query on the server, then drops it from the list.
func (b *QueryBoard) Delete(ctx context.Context, id uint) error {
	if err := b.client.DeleteQuery(ctx, id); err != nil {
		b.fail(err)
		return err
	}

	b.mu.Lock()
	kept := b.queries[:0]
	for _, q := range b.queries {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	b.queries = kept
	b.lastErr = ""
	b.mu.Unlock()
	return nil
}

// Assign assigns a worker on the server and swaps in the returned query.
func (b *QueryBoard) Assign(ctx context.Context, queryID, workerID uint) error {
	updated, err := b.client.AssignWorker(ctx, queryID, workerID)
	if err != nil {
		b.fail(err)
		return err
	}
	b.replace(*updated)
	return nil
}

// MarkInProgress moves a query to IN_PROGRESS on the server.
func (b *QueryBoard) MarkInProgress(ctx context.Context, queryID uint, comment string) error {
	updated, err := b.client.UpdateQueryStatus(ctx, queryID, models.StatusInProgress, comment)
	if err != nil {
		b.fail(err)
		return err
	}
	b.replace(*updated)
	return nil
}

// Complete resolves a query with notes and an optional evidence image.
func (b *QueryBoard) Complete(ctx context.Context, queryID uint, notes string) error {
	updated, err := b.client.CompleteQuery(ctx, queryID, notes, "", nil)
	if err != nil {
		b.fail(err)
		return err
	}
	b.replace(*updated)
	return nil
}

func (b *QueryBoard) replace(updated models.Query) {
	b.mu.Lock()
	for i := range b.queries {
		if b.queries[i].ID == updated.ID {
			b.queries[i] = updated
			break
		}
	}
	b.lastErr = ""
	b.mu.Unlock()
}

func (b *QueryBoard) fail(err error) {
	b.mu.Lock()
	b.lastErr = err.Error()
	b.mu.Unlock()
}
