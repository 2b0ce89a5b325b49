package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/store"
	"gorm.io/gorm"
)

// catalogDB backs the coach, course, skill and credit package services.
type catalogDB struct {
	users     map[string]*models.User
	coaches   map[string]*models.Coach
	links     map[string][]string
	skills    map[string]*models.Skill
	courses   map[string]*models.Course
	packages  map[string]*models.CreditPackage
	purchases []*models.CreditPurchase
	ownRows   []store.OwnCourseRow

	listCoursesCalls int
}

func newCatalogDB() *catalogDB {
	return &catalogDB{
		users:    map[string]*models.User{},
		coaches:  map[string]*models.Coach{},
		links:    map[string][]string{},
		skills:   map[string]*models.Skill{},
		courses:  map[string]*models.Course{},
		packages: map[string]*models.CreditPackage{},
	}
}

func (d *catalogDB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *catalogDB) PromoteToCoach(ctx context.Context, c *models.Coach) error {
	u, ok := d.users[c.UserID]
	if !ok || u.Role != models.RoleUser {
		return store.ErrNoRowsAffected
	}
	u.Role = models.RoleCoach
	c.User = *u
	d.coaches[c.ID] = c
	return nil
}

func (d *catalogDB) GetCoachByID(ctx context.Context, id string) (*models.Coach, error) {
	if c, ok := d.coaches[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *catalogDB) GetCoachByUserID(ctx context.Context, userID string) (*models.Coach, error) {
	for _, c := range d.coaches {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *catalogDB) ListCoaches(ctx context.Context, limit, offset int) ([]store.CoachListRow, error) {
	var out []store.CoachListRow
	for _, c := range d.coaches {
		out = append(out, store.CoachListRow{ID: c.ID, Name: c.User.Name})
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *catalogDB) ListCoursesByCoachID(ctx context.Context, coachID string) ([]store.CoachCourseRow, error) {
	c, ok := d.coaches[coachID]
	if !ok {
		return nil, nil
	}
	var out []store.CoachCourseRow
	for _, course := range d.courses {
		if course.UserID == c.UserID {
			out = append(out, store.CoachCourseRow{ID: course.ID, Name: course.Name})
		}
	}
	return out, nil
}

func (d *catalogDB) UpdateCoachProfile(ctx context.Context, coachID string, fields map[string]interface{}, skillIDs []string) error {
	c, ok := d.coaches[coachID]
	if !ok {
		return store.ErrNoRowsAffected
	}
	c.ExperienceYears = fields["experience_years"].(int)
	c.Description = fields["description"].(string)
	url := fields["profile_image_url"].(string)
	c.ProfileImageURL = &url
	d.links[coachID] = append([]string(nil), skillIDs...)
	return nil
}

func (d *catalogDB) ListCoachSkillIDs(ctx context.Context, coachID string) ([]string, error) {
	return d.links[coachID], nil
}

func (d *catalogDB) CountSkills(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := d.skills[id]; ok {
			n++
		}
	}
	return n, nil
}

func (d *catalogDB) CreateCourse(ctx context.Context, c *models.Course) error {
	d.courses[c.ID] = c
	return nil
}

func (d *catalogDB) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := d.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *catalogDB) UpdateCourseFields(ctx context.Context, id, ownerID string, fields map[string]interface{}) (int64, error) {
	c, ok := d.courses[id]
	if !ok || c.UserID != ownerID {
		return 0, nil
	}
	c.Name = fields["name"].(string)
	c.MaxParticipants = fields["max_participants"].(int)
	return 1, nil
}

func (d *catalogDB) ListCourses(ctx context.Context) ([]store.CourseListRow, error) {
	d.listCoursesCalls++
	var out []store.CourseListRow
	for _, c := range d.courses {
		out = append(out, store.CourseListRow{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (d *catalogDB) ListCoachOwnCourses(ctx context.Context, coachUserID string) ([]store.OwnCourseRow, error) {
	return d.ownRows, nil
}

func (d *catalogDB) GetCoachOwnCourse(ctx context.Context, coachUserID, courseID string) (*store.CourseDetailRow, error) {
	c, ok := d.courses[courseID]
	if !ok || c.UserID != coachUserID {
		return nil, store.ErrNotFound
	}
	return &store.CourseDetailRow{ID: c.ID, Name: c.Name}, nil
}

func (d *catalogDB) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var out []models.Skill
	for _, s := range d.skills {
		out = append(out, *s)
	}
	return out, nil
}

func (d *catalogDB) SkillNameExists(ctx context.Context, name string) (bool, error) {
	for _, s := range d.skills {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (d *catalogDB) CreateSkill(ctx context.Context, sk *models.Skill) error {
	d.skills[sk.ID] = sk
	return nil
}

func (d *catalogDB) DeleteSkill(ctx context.Context, id string) (int64, error) {
	if _, ok := d.skills[id]; !ok {
		return 0, nil
	}
	delete(d.skills, id)
	return 1, nil
}

func (d *catalogDB) ListCreditPackages(ctx context.Context) ([]models.CreditPackage, error) {
	var out []models.CreditPackage
	for _, p := range d.packages {
		out = append(out, *p)
	}
	return out, nil
}

func (d *catalogDB) GetCreditPackageByID(ctx context.Context, id string) (*models.CreditPackage, error) {
	if p, ok := d.packages[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *catalogDB) CreditPackageNameExists(ctx context.Context, name string) (bool, error) {
	for _, p := range d.packages {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (d *catalogDB) CreateCreditPackage(ctx context.Context, p *models.CreditPackage) error {
	d.packages[p.ID] = p
	return nil
}

func (d *catalogDB) DeleteCreditPackage(ctx context.Context, id string) (int64, error) {
	if _, ok := d.packages[id]; !ok {
		return 0, nil
	}
	delete(d.packages, id)
	return 1, nil
}

func (d *catalogDB) CreateCreditPurchase(ctx context.Context, p *models.CreditPurchase) error {
	d.purchases = append(d.purchases, p)
	return nil
}

// memCache is a ListingCache that stores values as-is.
type memCache struct {
	items   map[string]interface{}
	deletes int
}

func newMemCache() *memCache { return &memCache{items: map[string]interface{}{}} }

func (m *memCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	v, ok := m.items[key]
	if !ok {
		return false
	}
	switch d := dest.(type) {
	case *[]store.CourseListRow:
		*d = v.([]store.CourseListRow)
	case *[]models.Skill:
		*d = v.([]models.Skill)
	case *[]models.CreditPackage:
		*d = v.([]models.CreditPackage)
	default:
		return false
	}
	return true
}

func (m *memCache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	m.items[key] = v
}

func (m *memCache) Delete(ctx context.Context, keys ...string) {
	for _, k := range keys {
		delete(m.items, k)
	}
	m.deletes++
}

func (d *catalogDB) addUser(name string, role models.Role) *models.User {
	u := &models.User{ID: uuid.NewString(), Name: name, Role: role}
	d.users[u.ID] = u
	return u
}

func (d *catalogDB) addSkill(name string) string {
	id := uuid.NewString()
	d.skills[id] = &models.Skill{ID: id, Name: name}
	return id
}

func validCourseInput(skillID string) CourseInput {
	return CourseInput{
		SkillID:         skillID,
		Name:            "Morning yoga",
		Description:     "Stretch and breathe",
		StartAt:         "2025-07-01T09:00:00Z",
		EndAt:           "2025-07-01 10:00:00",
		MaxParticipants: float64(10),
		MeetingURL:      "https://meet.example.com/yoga",
	}
}

func TestPromoteToCoach(t *testing.T) {
	db := newCatalogDB()
	u := db.addUser("Bob01", models.RoleUser)
	svc := NewCoachService(db, nil)
	ctx := context.Background()

	res, err := svc.Promote(ctx, u.ID, float64(3), "Ten years of judo", nil)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if res.User.Role != models.RoleCoach || res.Coach.ExperienceYears != 3 || res.Coach.ProfileImageURL != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := svc.Promote(ctx, u.ID, float64(3), "again", nil); !errors.Is(err, apperr.ErrAlreadyCoach) {
		t.Fatalf("second promote: got %v", err)
	}
}

func TestPromoteValidation(t *testing.T) {
	db := newCatalogDB()
	u := db.addUser("Bob01", models.RoleUser)
	svc := NewCoachService(db, nil)
	ctx := context.Background()

	if _, err := svc.Promote(ctx, u.ID, float64(-1), "desc", nil); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("negative years: got %v", err)
	}
	if _, err := svc.Promote(ctx, u.ID, 1.5, "desc", nil); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("fractional years: got %v", err)
	}
	if _, err := svc.Promote(ctx, u.ID, float64(1), "desc", "http://img.example.com/a.png"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("insecure url: got %v", err)
	}
	if _, err := svc.Promote(ctx, uuid.NewString(), float64(1), "desc", nil); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestPromoteAdminLosesConditionalUpdate(t *testing.T) {
	db := newCatalogDB()
	u := db.addUser("Root01", models.RoleAdmin)
	svc := NewCoachService(db, nil)

	if _, err := svc.Promote(context.Background(), u.ID, float64(1), "desc", nil); !errors.Is(err, apperr.ErrUpdateFailed) {
		t.Fatalf("got %v, want ErrUpdateFailed", err)
	}
}

func TestCoachProfileUpdateAndRead(t *testing.T) {
	db := newCatalogDB()
	u := db.addUser("Bob01", models.RoleUser)
	svc := NewCoachService(db, nil)
	ctx := context.Background()
	if _, err := svc.Promote(ctx, u.ID, float64(1), "desc", nil); err != nil {
		t.Fatalf("promote: %v", err)
	}
	judo := db.addSkill("judo")
	yoga := db.addSkill("yoga")

	url, err := svc.UpdateProfile(ctx, u.ID, float64(4), "new desc", "https://img.example.com/me.png",
		[]interface{}{judo, yoga, judo})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if url != "https://img.example.com/me.png" {
		t.Fatalf("url = %q", url)
	}

	p, err := svc.OwnProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("own profile: %v", err)
	}
	if p.ExperienceYears != 4 || len(p.SkillIDs) != 2 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestCoachProfileUpdateRejects(t *testing.T) {
	db := newCatalogDB()
	u := db.addUser("Bob01", models.RoleUser)
	svc := NewCoachService(db, nil)
	ctx := context.Background()
	if _, err := svc.Promote(ctx, u.ID, float64(1), "desc", nil); err != nil {
		t.Fatalf("promote: %v", err)
	}
	img := "https://img.example.com/me.png"

	if _, err := svc.UpdateProfile(ctx, u.ID, float64(1), "d", img, []interface{}{}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty skills: got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, u.ID, 9.3e18, "d", img, []interface{}{uuid.NewString()}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("out-of-range experience: got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, u.ID, float64(1), "d", img, []interface{}{"nope"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad skill id: got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, u.ID, float64(1), "d", nil, []interface{}{uuid.NewString()}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("missing image: got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, u.ID, float64(1), "d", img, []interface{}{uuid.NewString()}); !errors.Is(err, apperr.ErrSkillNotFound) {
		t.Errorf("unknown skill: got %v", err)
	}
	other := db.addUser("Eve01", models.RoleUser)
	if _, err := svc.UpdateProfile(ctx, other.ID, float64(1), "d", img, []interface{}{db.addSkill("x")}); !errors.Is(err, apperr.ErrCoachNotFound) {
		t.Errorf("not a coach: got %v", err)
	}
}

func TestCoachListPaging(t *testing.T) {
	db := newCatalogDB()
	svc := NewCoachService(db, nil)
	ctx := context.Background()
	for _, n := range []string{"Ann01", "Ben01", "Cat01"} {
		u := db.addUser(n, models.RoleUser)
		if _, err := svc.Promote(ctx, u.ID, float64(1), "desc", nil); err != nil {
			t.Fatalf("promote: %v", err)
		}
	}

	rows, err := svc.List(ctx, "0", "0")
	if err != nil || rows == nil || len(rows) != 0 {
		t.Fatalf("per=0: rows=%v err=%v", rows, err)
	}
	rows, err = svc.List(ctx, "2", "1")
	if err != nil || len(rows) != 1 {
		t.Fatalf("page 1: rows=%v err=%v", rows, err)
	}
	if _, err := svc.List(ctx, "x", "0"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("bad per: got %v", err)
	}
	if _, err := svc.List(ctx, "1", "-1"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("negative page: got %v", err)
	}
}

func TestCoachCoursesUnknownCoach(t *testing.T) {
	svc := NewCoachService(newCatalogDB(), nil)
	if _, err := svc.Courses(context.Background(), uuid.NewString()); !errors.Is(err, apperr.ErrCoachNotFound) {
		t.Fatalf("got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.NewString()); !errors.Is(err, apperr.ErrCoachNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestCourseCreateUpdateAndCache(t *testing.T) {
	db := newCatalogDB()
	coach := db.addUser("Bob01", models.RoleCoach)
	skill := db.addSkill("yoga")
	cache := newMemCache()
	svc := NewCourseService(db, cache, time.Minute, nil)
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if db.listCoursesCalls != 1 {
		t.Fatalf("second list should hit cache, store called %d times", db.listCoursesCalls)
	}

	course, err := svc.Create(ctx, coach.ID, validCourseInput(skill))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if course.UserID != coach.ID || course.MaxParticipants != 10 {
		t.Fatalf("unexpected course: %+v", course)
	}
	if !course.EndAt.Equal(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("end_at parsed as %s", course.EndAt)
	}
	rows, _ := svc.List(ctx)
	if len(rows) != 1 || db.listCoursesCalls != 2 {
		t.Fatalf("create must invalidate the listing: rows=%d calls=%d", len(rows), db.listCoursesCalls)
	}

	in := validCourseInput(skill)
	in.Name = "Evening yoga"
	updated, err := svc.Update(ctx, coach.ID, course.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Evening yoga" {
		t.Fatalf("name = %q", updated.Name)
	}

	stranger := db.addUser("Eve01", models.RoleCoach)
	if _, err := svc.Update(ctx, stranger.ID, course.ID, in); !errors.Is(err, apperr.ErrCourseNotFound) {
		t.Fatalf("foreign update: got %v", err)
	}
	if _, err := svc.OwnCourse(ctx, stranger.ID, course.ID); !errors.Is(err, apperr.ErrCourseNotFound) {
		t.Fatalf("foreign detail: got %v", err)
	}
}

func TestCourseInputValidation(t *testing.T) {
	db := newCatalogDB()
	coach := db.addUser("Bob01", models.RoleCoach)
	skill := db.addSkill("yoga")
	svc := NewCourseService(db, nil, time.Minute, nil)
	ctx := context.Background()

	cases := map[string]func(*CourseInput){
		"http meeting url": func(in *CourseInput) { in.MeetingURL = "http://meet.example.com" },
		"zero capacity":    func(in *CourseInput) { in.MaxParticipants = float64(0) },
		"string capacity":  func(in *CourseInput) { in.MaxParticipants = "10" },
		"huge capacity":    func(in *CourseInput) { in.MaxParticipants = 1e20 },
		"end before start": func(in *CourseInput) { in.EndAt = "2025-06-30T09:00:00Z" },
		"bad time":         func(in *CourseInput) { in.StartAt = "tomorrow" },
		"missing name":     func(in *CourseInput) { in.Name = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validCourseInput(skill)
			mutate(&in)
			if _, err := svc.Create(ctx, coach.ID, in); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
	if _, err := svc.Create(ctx, coach.ID, validCourseInput(uuid.NewString())); !errors.Is(err, apperr.ErrSkillNotFound) {
		t.Fatalf("unknown skill: got %v", err)
	}
}

func TestOwnCoursesCarryStatus(t *testing.T) {
	db := newCatalogDB()
	svc := NewCourseService(db, nil, time.Minute, nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.OwnCourses(context.Background(), "coach"); !errors.Is(err, apperr.ErrCoachNotFound) {
		t.Fatalf("empty: got %v", err)
	}

	db.ownRows = []store.OwnCourseRow{
		{ID: "a", StartAt: now.AddDate(0, 1, 0), EndAt: now.AddDate(0, 1, 1)},
		{ID: "b", StartAt: now.AddDate(0, 0, -1), EndAt: now.AddDate(0, 0, -1).Add(time.Hour)},
	}
	rows, err := svc.OwnCourses(context.Background(), "coach")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Status != models.CourseOpenForRegistration || rows[1].Status != models.CourseCompleted {
		t.Fatalf("statuses: %s, %s", rows[0].Status, rows[1].Status)
	}
}

func TestSkillLifecycle(t *testing.T) {
	db := newCatalogDB()
	cache := newMemCache()
	svc := NewSkillService(db, cache, time.Minute, nil)
	ctx := context.Background()

	sk, err := svc.Create(ctx, "judo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "judo"); !errors.Is(err, apperr.ErrSkillTaken) {
		t.Fatalf("duplicate: got %v", err)
	}
	if _, err := svc.Create(ctx, "   "); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("blank: got %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", list, err)
	}
	if err := svc.Delete(ctx, sk.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, sk.ID); !errors.Is(err, apperr.ErrInvalidID) {
		t.Fatalf("second delete: got %v", err)
	}
	if _, ok := cache.items[cacheKeySkills]; ok {
		t.Fatalf("delete must invalidate the skill listing")
	}
}

func TestCreditPackageBuySnapshots(t *testing.T) {
	db := newCatalogDB()
	svc := NewCreditPackageService(db, nil, time.Minute, nil)
	ctx := context.Background()

	pkg, err := svc.Create(ctx, "7 classes", float64(7), float64(1400))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "7 classes", float64(7), float64(1400)); !errors.Is(err, apperr.ErrPackageTaken) {
		t.Fatalf("duplicate: got %v", err)
	}
	if _, err := svc.Create(ctx, "free", float64(0), float64(0)); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("zero amounts: got %v", err)
	}
	if _, err := svc.Create(ctx, "huge", float64(1), 1e20); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("out-of-range price: got %v", err)
	}

	purchase, err := svc.Buy(ctx, "user-1", pkg.ID)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	pkg.Price = 9999
	if purchase.PricePaid != 1400 || purchase.PurchasedCredits != 7 {
		t.Fatalf("purchase not snapshotted: %+v", purchase)
	}

	if err := svc.Delete(ctx, pkg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(db.purchases) != 1 {
		t.Fatalf("purchases must survive package deletion")
	}
	if _, err := svc.Buy(ctx, "user-1", pkg.ID); !errors.Is(err, apperr.ErrPackageNotFound) {
		t.Fatalf("buy deleted: got %v", err)
	}
	if _, err := svc.Buy(ctx, "user-1", "bad"); !errors.Is(err, apperr.ErrInvalidID) {
		t.Fatalf("bad id: got %v", err)
	}
}
