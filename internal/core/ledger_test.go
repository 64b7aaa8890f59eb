package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/models"
)

func TestJoin_CapacityScenario(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, intPtr(1))
	id := created.Session.ID

	c1, err := l.Join(id, "Alice", "")
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	if c1 == "" {
		t.Fatal("attendance code missing")
	}

	if _, err := l.Join(id, "Bob", ""); !errors.Is(err, ErrFull) {
		t.Fatalf("second join: want full, got %v", err)
	}

	if err := l.Cancel(id, c1); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// cancelling freed the slot
	if _, err := l.Join(id, "Bob", ""); err != nil {
		t.Fatalf("join after cancel: %v", err)
	}
}

func TestJoin_ConcurrentNeverOvershoots(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	const capacity = 3
	const attempts = 10
	created := createSession(t, r, VisibilityPublic, intPtr(capacity))
	id := created.Session.ID

	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Join(id, "", "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var joined, full int
	for err := range results {
		switch {
		case err == nil:
			joined++
		case errors.Is(err, ErrFull):
			full++
		default:
			t.Errorf("unexpected join error: %v", err)
		}
	}
	if joined != capacity {
		t.Errorf("want exactly %d successful joins, got %d", capacity, joined)
	}
	if full != attempts-capacity {
		t.Errorf("want %d full results, got %d", attempts-capacity, full)
	}

	var count int64
	if err := db.Model(&models.Attendance{}).Where("session_id = ?", id).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != capacity {
		t.Errorf("stored rows: want %d, got %d", capacity, count)
	}
}

func TestJoin_PrivateRequiresToken(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPrivate, nil)
	id := created.Session.ID
	token := *created.Session.InviteToken

	if _, err := l.Join(id, "Alice", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("missing token: want forbidden, got %v", err)
	}
	if _, err := l.Join(id, "Alice", "wrong"); !errors.Is(err, ErrForbidden) {
		t.Errorf("wrong token: want forbidden, got %v", err)
	}
	// the management code is not an invite token
	if _, err := l.Join(id, "Alice", created.Session.ManagementCode); !errors.Is(err, ErrForbidden) {
		t.Errorf("management code must not gate joins, got %v", err)
	}
	if _, err := l.Join(id, "Alice", token); err != nil {
		t.Errorf("valid token: %v", err)
	}
}

func TestJoin_UnknownSession(t *testing.T) {
	db := newTestDB(t)
	l := NewLedger(db)

	if _, err := l.Join(999, "Alice", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("want not found, got %v", err)
	}
}

func TestJoin_UnlimitedCapacity(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, nil)
	for i := 0; i < 5; i++ {
		if _, err := l.Join(created.Session.ID, "", ""); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}
}

func TestJoin_AnonymousDefault(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, nil)
	if _, err := l.Join(created.Session.ID, "  ", ""); err != nil {
		t.Fatalf("join: %v", err)
	}

	attendees, err := l.ListAttendees(created.Session.ID, created.Session.ManagementCode)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attendees) != 1 || attendees[0].Name != AnonymousName {
		t.Errorf("want one %q attendee, got %+v", AnonymousName, attendees)
	}
}

func TestCancel_SecondTimeFails(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, nil)
	id := created.Session.ID

	code, err := l.Join(id, "Alice", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := l.Cancel(id, code); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := l.Cancel(id, code); !errors.Is(err, ErrNotFound) {
		t.Errorf("second cancel: want not found, got %v", err)
	}
}

func TestCancel_WrongSessionOrCode(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, nil)
	other := createSession(t, r, VisibilityPublic, nil)

	code, err := l.Join(created.Session.ID, "Alice", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := l.Cancel(other.Session.ID, code); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong session: want not found, got %v", err)
	}
	if err := l.Cancel(created.Session.ID, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong code: want not found, got %v", err)
	}
	if err := l.Cancel(created.Session.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty code: want not found, got %v", err)
	}
}

func TestLookupByCode(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, nil)
	code, err := l.Join(created.Session.ID, "Alice", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	s, err := l.LookupByCode(code)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if s.ID != created.Session.ID {
		t.Errorf("resolved wrong session: want %d, got %d", created.Session.ID, s.ID)
	}

	if _, err := l.LookupByCode("bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown code: want not found, got %v", err)
	}
}

func TestListAttendees(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, nil)
	id, mgmt := created.Session.ID, created.Session.ManagementCode

	// empty roster is a valid empty result, not an error
	attendees, err := l.ListAttendees(id, mgmt)
	if err != nil {
		t.Fatalf("empty roster: %v", err)
	}
	if len(attendees) != 0 {
		t.Fatalf("want empty roster, got %+v", attendees)
	}

	if _, err := l.Join(id, "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	attendees, err = l.ListAttendees(id, mgmt)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attendees) != 1 || attendees[0].Name != "Alice" {
		t.Errorf("unexpected roster: %+v", attendees)
	}

	if _, err := l.ListAttendees(id, "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong code: want unauthorized, got %v", err)
	}
	if _, err := l.ListAttendees(999, mgmt); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown session: want not found, got %v", err)
	}
}

func TestRemoveAttendee(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, nil)
	id, mgmt := created.Session.ID, created.Session.ManagementCode

	code, err := l.Join(id, "Alice", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	attendees, err := l.ListAttendees(id, mgmt)
	if err != nil || len(attendees) != 1 {
		t.Fatalf("roster: %v %+v", err, attendees)
	}
	attendeeID := attendees[0].ID

	if err := l.RemoveAttendee(id, attendeeID, "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong code: want unauthorized, got %v", err)
	}
	if err := l.RemoveAttendee(id, 999, mgmt); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown attendee: want not found, got %v", err)
	}
	if err := l.RemoveAttendee(id, attendeeID, mgmt); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// the removed participant's code is gone too
	if err := l.Cancel(id, code); !errors.Is(err, ErrNotFound) {
		t.Errorf("removed attendance still cancellable, got %v", err)
	}
}

func TestRoster(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, "")
	l := NewLedger(db)

	created := createSession(t, r, VisibilityPublic, nil)
	id, mgmt := created.Session.ID, created.Session.ManagementCode

	if _, err := l.Join(id, "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}

	entries, err := l.Roster(id, mgmt)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "Alice" || entries[0].JoinedAt.IsZero() {
		t.Errorf("unexpected entry: %+v", entries[0])
	}

	if _, err := l.Roster(id, "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong code: want unauthorized, got %v", err)
	}
}
