package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// sqlRecorder is a gorm logger that keeps every statement with its bound values.
type sqlRecorder struct {
	mu    sync.Mutex
	stmts []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	stmt, _ := fc()
	r.mu.Lock()
	r.stmts = append(r.stmts, stmt)
	r.mu.Unlock()
}

func (r *sqlRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stmts...)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	all := r.all()
	if len(all) == 0 {
		t.Fatalf("no statement recorded")
	}
	return all[len(all)-1]
}

// dryConn never reaches a server; in DryRun mode gorm only needs it to begin
// and finish transactions.
type dryConn struct {
	mu        sync.Mutex
	committed int
	rolled    int
}

var errNoServer = errors.New("dry run: no server")

func (c *dryConn) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errNoServer
}

func (c *dryConn) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoServer
}

func (c *dryConn) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNoServer
}

func (c *dryConn) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (c *dryConn) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	return &dryTx{dryConn: c}, nil
}

type dryTx struct {
	*dryConn
}

func (t *dryTx) Commit() error {
	t.mu.Lock()
	t.committed++
	t.mu.Unlock()
	return nil
}

func (t *dryTx) Rollback() error {
	t.mu.Lock()
	t.rolled++
	t.mu.Unlock()
	return nil
}

func newDryRunStore(t *testing.T) (*Store, *sqlRecorder, *dryConn) {
	t.Helper()
	rec := &sqlRecorder{}
	conn := &dryConn{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return &Store{DB: db}, rec, conn
}

func assertContains(t *testing.T, stmt string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(stmt, p) {
			t.Errorf("statement %q does not contain %q", stmt, p)
		}
	}
}

func TestBookingTxLocksUserAndCourse(t *testing.T) {
	s, rec, conn := newDryRunStore(t)
	ctx := context.Background()

	err := s.WithBookingTx(ctx, func(tx BookingTx) error {
		if err := tx.LockUser(ctx, "u1"); err != nil {
			return err
		}
		_, err := tx.GetCourseForUpdate(ctx, "c1")
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	stmts := rec.all()
	if len(stmts) != 2 {
		t.Fatalf("statements = %q", stmts)
	}
	assertContains(t, stmts[0], `FROM "users"`, "id = 'u1'", "FOR UPDATE")
	assertContains(t, stmts[1], `FROM "courses"`, "id = 'c1'", "FOR UPDATE")
	if conn.committed != 1 || conn.rolled != 0 {
		t.Fatalf("committed = %d rolled back = %d", conn.committed, conn.rolled)
	}
}

func TestBookingTxRollsBackOnError(t *testing.T) {
	s, _, conn := newDryRunStore(t)
	want := errors.New("course full")

	err := s.WithBookingTx(context.Background(), func(tx BookingTx) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("err = %v", err)
	}
	if conn.committed != 0 || conn.rolled != 1 {
		t.Fatalf("committed = %d rolled back = %d", conn.committed, conn.rolled)
	}
}

func TestBookingCountsOnlyActiveRows(t *testing.T) {
	s, rec, _ := newDryRunStore(t)
	ctx := context.Background()
	tx := &bookingTx{db: s.DB}

	_, _ = tx.CountActiveBookingsByUser(ctx, "u1")
	assertContains(t, rec.last(t), `FROM "course_bookings"`, "user_id = 'u1'", "status = 'active'")

	_, _ = tx.CountActiveBookingsByCourse(ctx, "c1")
	assertContains(t, rec.last(t), `FROM "course_bookings"`, "course_id = 'c1'", "status = 'active'")

	_, _ = s.HasActiveBooking(ctx, "u1", "c1")
	assertContains(t, rec.last(t), "user_id = 'u1'", "course_id = 'c1'", "status = 'active'")
}

func TestSumPurchasedCreditsNeverNull(t *testing.T) {
	s, rec, _ := newDryRunStore(t)
	_, _ = s.SumPurchasedCredits(context.Background(), "u1")
	assertContains(t, rec.last(t), "COALESCE(SUM(purchased_credits), 0)", `FROM "credit_purchases"`, "user_id = 'u1'")
}

func TestCancelIsConditionalOnActiveStatus(t *testing.T) {
	s, rec, _ := newDryRunStore(t)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_, _ = s.CancelActiveBooking(context.Background(), "u1", "c1", at)

	stmt := rec.last(t)
	assertContains(t, stmt, `UPDATE "course_bookings"`, `"status"='cancelled'`, `"cancelled_at"=`,
		"user_id = 'u1'", "course_id = 'c1'", "status = 'active'")
	if strings.Contains(stmt, "DELETE") {
		t.Fatalf("bookings must never be deleted: %q", stmt)
	}
}

func TestRevenueQueries(t *testing.T) {
	s, rec, _ := newDryRunStore(t)
	ctx := context.Background()

	_, _, _ = s.CountCoachBookingsInMonth(ctx, "coach-1", 3)
	assertContains(t, rec.last(t),
		"COUNT(DISTINCT c.id)", "JOIN courses c ON c.id = cb.course_id",
		"c.user_id = 'coach-1'", "cb.status = 'active'", "EXTRACT(MONTH FROM cb.created_at) = 3")

	_, _, _ = s.PackageTotals(ctx)
	assertContains(t, rec.last(t), "COALESCE(SUM(price), 0)", "COALESCE(SUM(credit_amount), 0)", `FROM "credit_packages"`)
}

func TestSetUserRoleByEmailOnlyTouchesUsers(t *testing.T) {
	s, rec, _ := newDryRunStore(t)
	ctx := context.Background()

	_, _ = s.SetUserRoleByEmail(ctx, "a@example.com", models.RoleAdmin)
	assertContains(t, rec.last(t), `UPDATE "users"`, `"role"='ADMIN'`, "email = 'a@example.com'", "role = 'USER'")

	before := len(rec.all())
	if _, err := s.SetUserRoleByEmail(ctx, "a@example.com", models.Role("ROOT")); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if len(rec.all()) != before {
		t.Fatalf("unknown role must not reach the database")
	}
}

func TestActiveBookingPartialUniqueIndex(t *testing.T) {
	sch, err := schema.Parse(&models.CourseBooking{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	idx := sch.LookIndex("idx_course_bookings_active")
	if idx == nil {
		t.Fatalf("index idx_course_bookings_active missing")
	}
	if idx.Class != "UNIQUE" {
		t.Errorf("class = %q", idx.Class)
	}
	if idx.Where != "status = 'active'" {
		t.Errorf("where = %q", idx.Where)
	}
	cols := map[string]bool{}
	for _, f := range idx.Fields {
		cols[f.DBName] = true
	}
	if len(cols) != 2 || !cols["user_id"] || !cols["course_id"] {
		t.Errorf("columns = %v", cols)
	}
}
