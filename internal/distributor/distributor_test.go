// AngelaMos | 2026
// distributor_test.go

package distributor

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/user"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlx.Open(core.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := core.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	svc   *Service
	users *user.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := setupTestDB(t)
	users := user.NewService(db, auth.PlainVerifier{})
	return fixture{
		svc:   NewService(db, users, "1234"),
		users: users,
	}
}

func countGuests(t *testing.T, users *user.Service, name string) int {
	t.Helper()
	infos, err := users.FindByName(context.Background(), name)
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	n := 0
	for _, u := range infos {
		if u.Role == auth.RoleGuest {
			n++
		}
	}
	return n
}

func TestCreateNormalizesAndProvisionsGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Create(ctx, "ADMIN", CreateDistributorRequest{
		Name:     "  acme traders ",
		Address:  "12 main ROAD",
		Location: "new delhi",
		Contact:  " 555-0100 ",
		Email:    "ops@acme.test",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if d.Name != "ACME TRADERS" || d.Location != "New Delhi" || d.Address != "12 Main Road" {
		t.Fatalf("distributor not normalized: %+v", d)
	}
	if d.Contact != "555-0100" || d.AddedBy != "ADMIN" {
		t.Fatalf("distributor = %+v", d)
	}

	infos, err := f.users.FindByName(ctx, "ACME TRADERS")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if len(infos) != 1 || infos[0].Role != auth.RoleGuest || infos[0].Password != "1234" {
		t.Fatalf("guest user = %+v", infos)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "ADMIN", CreateDistributorRequest{Name: " ", Location: "North"})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}

	users, err := f.users.List(context.Background())
	if err != nil || len(users) != 0 {
		t.Fatalf("users = %v, %v", users, err)
	}
}

func TestDeleteRemovesOnlyMatchingGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d1, err := f.svc.Create(ctx, "ADMIN", CreateDistributorRequest{Name: "D1", Location: "North"})
	if err != nil {
		t.Fatalf("Create(D1) error = %v", err)
	}
	if _, err := f.svc.Create(ctx, "ADMIN", CreateDistributorRequest{Name: "D2", Location: "North"}); err != nil {
		t.Fatalf("Create(D2) error = %v", err)
	}
	if _, err := f.users.Create(ctx, user.CreateUserRequest{Name: "D1", Type: auth.RoleStandard, Password: "pw"}); err != nil {
		t.Fatalf("create standard user: %v", err)
	}

	before, err := f.users.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if err := f.svc.Delete(ctx, d1.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	after, err := f.users.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(after) != len(before)-1 {
		t.Fatalf("users %d -> %d, want exactly one removed", len(before), len(after))
	}
	if countGuests(t, f.users, "D1") != 0 {
		t.Fatalf("D1 guest still present")
	}
	if countGuests(t, f.users, "D2") != 1 {
		t.Fatalf("D2 guest affected")
	}

	infos, _ := f.users.FindByName(ctx, "D1")
	if len(infos) != 1 || infos[0].Role != auth.RoleStandard {
		t.Fatalf("non-guest D1 user affected: %+v", infos)
	}
}

func TestDeleteDuplicateNamedDistributorsOneGuestEach(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, "ADMIN", CreateDistributorRequest{Name: "TWIN", Location: "North"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := f.svc.Create(ctx, "ADMIN", CreateDistributorRequest{Name: "TWIN", Location: "South"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n := countGuests(t, f.users, "TWIN"); n != 1 {
		t.Fatalf("TWIN guests = %d, want 1", n)
	}
}

func TestDeleteMissingDistributor(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Delete(context.Background(), 99); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestLocationCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, req := range []CreateDistributorRequest{
		{Name: "D1", Location: "north"},
		{Name: "D2", Location: "South"},
		{Name: "D3", Location: "North"},
	} {
		if _, err := f.svc.Create(ctx, "ADMIN", req); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	locations, err := f.svc.Locations(ctx)
	if err != nil || !slices.Equal(locations, []string{"North", "South"}) {
		t.Fatalf("Locations() = %v, %v", locations, err)
	}

	names, err := f.svc.NamesAt(ctx, "North")
	if err != nil || !slices.Equal(names, []string{"D1", "D3"}) {
		t.Fatalf("NamesAt(North) = %v, %v", names, err)
	}

	names, err = f.svc.NamesAt(ctx, "Nowhere")
	if err != nil || len(names) != 0 {
		t.Fatalf("NamesAt(Nowhere) = %v, %v", names, err)
	}

	ok, err := f.svc.Exists(ctx, "D2")
	if err != nil || !ok {
		t.Fatalf("Exists(D2) = %v, %v", ok, err)
	}
	ok, err = f.svc.Exists(ctx, "d2")
	if err != nil || ok {
		t.Fatalf("Exists(d2) = %v, %v; matching is exact", ok, err)
	}
}
