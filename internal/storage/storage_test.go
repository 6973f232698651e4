package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"collab-server/internal/observability"
	"collab-server/internal/schema"
)

// testBackends returns one instance of each adapter. The contract tests run
// against both: the two must answer every call identically.
func testBackends(t *testing.T) map[string]Backend {
	t.Helper()

	sqlitePath := filepath.Join(t.TempDir(), "contract_test.db")
	sqliteBackend, err := OpenSQLite(sqlitePath, observability.NewLogger())
	if err != nil {
		t.Fatalf("failed to open sqlite backend: %v", err)
	}
	t.Cleanup(func() { sqliteBackend.Close() })

	return map[string]Backend{
		"sqlite": sqliteBackend,
		"memory": NewMemory(),
	}
}

func createUser(t *testing.T, b Backend, email string) string {
	t.Helper()
	id, err := b.Create(context.Background(), schema.TableUsers, Row{
		schema.ColEmail:        email,
		schema.ColPasswordHash: "x",
		schema.ColRole:         "influencer",
		schema.ColStatus:       "approved",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func createInfluencer(t *testing.T, b Backend, userID string) string {
	t.Helper()
	id, err := b.Create(context.Background(), schema.TableInfluencers, Row{
		schema.ColUserID:   userID,
		schema.ColFullName: "Test Influencer",
		schema.ColCity:     "Valencia",
	})
	if err != nil {
		t.Fatalf("create influencer: %v", err)
	}
	return id
}

func TestCreateAndFindByID(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := createUser(t, b, "find@example.com")

			row, err := b.FindByID(ctx, schema.TableUsers, id)
			if err != nil {
				t.Fatalf("FindByID() error = %v", err)
			}
			if row[schema.ColEmail] != "find@example.com" {
				t.Errorf("email = %v, want find@example.com", row[schema.ColEmail])
			}
			if row[schema.ColCreatedAt] == nil || row[schema.ColUpdatedAt] == nil {
				t.Error("timestamps were not stamped on create")
			}

			if _, err := b.FindByID(ctx, schema.TableUsers, "missing-id"); !errors.Is(err, ErrNotFound) {
				t.Errorf("FindByID(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestUniqueEmailConflict(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			createUser(t, b, "dup@example.com")

			_, err := b.Create(context.Background(), schema.TableUsers, Row{
				schema.ColEmail:        "dup@example.com",
				schema.ColPasswordHash: "y",
				schema.ColRole:         "company",
				schema.ColStatus:       "pending",
			})
			if !errors.Is(err, ErrConflict) {
				t.Errorf("duplicate email error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestEnumCheckViolation(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Create(context.Background(), schema.TableUsers, Row{
				schema.ColEmail:        "enum@example.com",
				schema.ColPasswordHash: "x",
				schema.ColRole:         "superhero",
				schema.ColStatus:       "pending",
			})
			if !errors.Is(err, ErrValidation) {
				t.Errorf("bad role error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestForeignKeyViolation(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Create(context.Background(), schema.TableInfluencers, Row{
				schema.ColUserID:   "no-such-user",
				schema.ColFullName: "Orphan",
				schema.ColCity:     "Madrid",
			})
			if !errors.Is(err, ErrConflict) {
				t.Errorf("missing parent error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestCascadeDelete(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := createUser(t, b, "cascade@example.com")
			infID := createInfluencer(t, b, userID)

			if _, err := b.Create(ctx, schema.TableAudienceStats, Row{
				schema.ColInfluencerID: infID,
				schema.ColKind:         "country",
				schema.ColSegment:      "ES",
				schema.ColPercentage:   62.5,
			}); err != nil {
				t.Fatalf("create audience stat: %v", err)
			}
			if _, err := b.Create(ctx, schema.TableMonthlyStats, Row{
				schema.ColInfluencerID: infID,
				schema.ColMonth:        int64(5),
				schema.ColYear:         int64(2026),
				schema.ColViews:        int64(1000),
			}); err != nil {
				t.Fatalf("create monthly stat: %v", err)
			}

			ok, err := b.Delete(ctx, schema.TableUsers, userID)
			if err != nil || !ok {
				t.Fatalf("Delete() = %v, %v", ok, err)
			}

			for _, table := range []string{schema.TableInfluencers, schema.TableAudienceStats, schema.TableMonthlyStats} {
				n, err := b.Count(ctx, table, nil)
				if err != nil {
					t.Fatalf("Count(%s) error = %v", table, err)
				}
				if n != 0 {
					t.Errorf("%s has %d orphaned rows after cascade delete", table, n)
				}
			}
		})
	}
}

func TestCompositeUniqueness(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := createUser(t, b, "stats@example.com")
			infID := createInfluencer(t, b, userID)

			stat := Row{
				schema.ColInfluencerID: infID,
				schema.ColMonth:        int64(3),
				schema.ColYear:         int64(2026),
			}
			if _, err := b.Create(ctx, schema.TableMonthlyStats, stat.Clone()); err != nil {
				t.Fatalf("first create: %v", err)
			}
			if _, err := b.Create(ctx, schema.TableMonthlyStats, stat.Clone()); !errors.Is(err, ErrConflict) {
				t.Errorf("duplicate (influencer, month, year) error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestFindAllOrderingAndPaging(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := createUser(t, b, "order@example.com")
			infID := createInfluencer(t, b, userID)

			months := [][2]int64{{11, 2025}, {2, 2026}, {1, 2026}, {12, 2025}}
			for _, m := range months {
				if _, err := b.Create(ctx, schema.TableMonthlyStats, Row{
					schema.ColInfluencerID: infID,
					schema.ColMonth:        m[0],
					schema.ColYear:         m[1],
				}); err != nil {
					t.Fatalf("create stat %v: %v", m, err)
				}
			}

			rows, err := b.FindAll(ctx, schema.TableMonthlyStats, Query{
				Conditions: Conditions{schema.ColInfluencerID: infID},
				OrderBy: []Order{
					{Column: schema.ColYear, Desc: true},
					{Column: schema.ColMonth, Desc: true},
				},
				Limit: 1,
			})
			if err != nil {
				t.Fatalf("FindAll() error = %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("got %d rows, want 1", len(rows))
			}
			if rows[0][schema.ColYear] != int64(2026) || rows[0][schema.ColMonth] != int64(2) {
				t.Errorf("latest stat = %v/%v, want 2/2026", rows[0][schema.ColMonth], rows[0][schema.ColYear])
			}

			page, err := b.FindAll(ctx, schema.TableMonthlyStats, Query{
				Conditions: Conditions{schema.ColInfluencerID: infID},
				OrderBy:    []Order{{Column: schema.ColYear}, {Column: schema.ColMonth}},
				Limit:      2,
				Offset:     2,
			})
			if err != nil {
				t.Fatalf("FindAll() paging error = %v", err)
			}
			if len(page) != 2 {
				t.Fatalf("got %d rows, want 2", len(page))
			}
			if page[0][schema.ColMonth] != int64(1) {
				t.Errorf("page starts at month %v, want 1", page[0][schema.ColMonth])
			}

			// Offset must apply even without a limit.
			tail, err := b.FindAll(ctx, schema.TableMonthlyStats, Query{
				Conditions: Conditions{schema.ColInfluencerID: infID},
				OrderBy:    []Order{{Column: schema.ColYear}, {Column: schema.ColMonth}},
				Offset:     2,
			})
			if err != nil {
				t.Fatalf("FindAll() offset-only error = %v", err)
			}
			if len(tail) != 2 {
				t.Fatalf("got %d rows after offset 2 of 4, want 2", len(tail))
			}
			if tail[0][schema.ColMonth] != int64(1) || tail[0][schema.ColYear] != int64(2026) {
				t.Errorf("tail starts at %v/%v, want 1/2026", tail[0][schema.ColMonth], tail[0][schema.ColYear])
			}
		})
	}
}

func TestConditionOperators(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, email := range []string{"ana@example.com", "bea@example.com", "carla@other.org"} {
				createUser(t, b, email)
			}

			n, err := b.Count(ctx, schema.TableUsers, Conditions{schema.ColEmail: Like("%@example.com")})
			if err != nil {
				t.Fatalf("Count(Like) error = %v", err)
			}
			if n != 2 {
				t.Errorf("Like matched %d rows, want 2", n)
			}

			n, err = b.Count(ctx, schema.TableUsers, Conditions{schema.ColEmail: NotEq("ana@example.com")})
			if err != nil {
				t.Fatalf("Count(NotEq) error = %v", err)
			}
			if n != 2 {
				t.Errorf("NotEq matched %d rows, want 2", n)
			}

			n, err = b.Count(ctx, schema.TableUsers, Conditions{
				schema.ColEmail: In("ana@example.com", "carla@other.org", "nobody@x.y"),
			})
			if err != nil {
				t.Fatalf("Count(In) error = %v", err)
			}
			if n != 2 {
				t.Errorf("In matched %d rows, want 2", n)
			}

			n, err = b.Count(ctx, schema.TableUsers, Conditions{schema.ColEmail: In()})
			if err != nil {
				t.Fatalf("Count(empty In) error = %v", err)
			}
			if n != 0 {
				t.Errorf("empty In matched %d rows, want 0", n)
			}
		})
	}
}

func TestTransactionRollback(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			boom := errors.New("boom")

			// Step 2 of 3 fails: nothing from any step may remain visible.
			err := b.Transaction(ctx, func(ctx context.Context, tx Backend) error {
				userID, err := tx.Create(ctx, schema.TableUsers, Row{
					schema.ColEmail:        "tx@example.com",
					schema.ColPasswordHash: "x",
					schema.ColRole:         "influencer",
					schema.ColStatus:       "pending",
				})
				if err != nil {
					return err
				}
				if _, err := tx.Create(ctx, schema.TableInfluencers, Row{
					schema.ColUserID:   userID,
					schema.ColFullName: "Rolled Back",
					schema.ColCity:     "Sevilla",
				}); err != nil {
					return err
				}
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("Transaction() error = %v, want boom", err)
			}

			for _, table := range []string{schema.TableUsers, schema.TableInfluencers} {
				n, err := b.Count(ctx, table, nil)
				if err != nil {
					t.Fatalf("Count(%s) error = %v", table, err)
				}
				if n != 0 {
					t.Errorf("%s has %d rows after rollback, want 0", table, n)
				}
			}
		})
	}
}

func TestTransactionOrderingVisibility(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := b.Transaction(ctx, func(ctx context.Context, tx Backend) error {
				id, err := tx.Create(ctx, schema.TableUsers, Row{
					schema.ColEmail:        "visible@example.com",
					schema.ColPasswordHash: "x",
					schema.ColRole:         "company",
					schema.ColStatus:       "pending",
				})
				if err != nil {
					return err
				}
				// A later statement in the same scope observes the earlier one.
				row, err := tx.FindByID(ctx, schema.TableUsers, id)
				if err != nil {
					return err
				}
				if row[schema.ColEmail] != "visible@example.com" {
					t.Error("earlier write not visible inside transaction scope")
				}
				return nil
			})
			if err != nil {
				t.Fatalf("Transaction() error = %v", err)
			}

			n, err := b.Count(ctx, schema.TableUsers, nil)
			if err != nil || n != 1 {
				t.Errorf("Count() after commit = %d, %v; want 1 row", n, err)
			}
		})
	}
}

func TestUpdateAndDeleteWhere(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := createUser(t, b, "upd@example.com")

			ok, err := b.Update(ctx, schema.TableUsers, id, Row{schema.ColStatus: "suspended"})
			if err != nil || !ok {
				t.Fatalf("Update() = %v, %v", ok, err)
			}
			row, err := b.FindByID(ctx, schema.TableUsers, id)
			if err != nil {
				t.Fatal(err)
			}
			if row[schema.ColStatus] != "suspended" {
				t.Errorf("status = %v, want suspended", row[schema.ColStatus])
			}

			ok, err = b.Update(ctx, schema.TableUsers, "missing", Row{schema.ColStatus: "approved"})
			if err != nil {
				t.Fatalf("Update(missing) error = %v", err)
			}
			if ok {
				t.Error("Update(missing) = true, want false")
			}

			createUser(t, b, "gone1@example.com")
			createUser(t, b, "gone2@example.com")
			n, err := b.DeleteWhere(ctx, schema.TableUsers, Conditions{schema.ColEmail: Like("gone%")})
			if err != nil {
				t.Fatalf("DeleteWhere() error = %v", err)
			}
			if n != 2 {
				t.Errorf("DeleteWhere() = %d, want 2", n)
			}
		})
	}
}

func TestRawQueryEscapeHatch(t *testing.T) {
	backends := testBackends(t)

	t.Run("sqlite", func(t *testing.T) {
		b := backends["sqlite"]
		createUser(t, b, "raw@example.com")

		rows, err := b.RawQuery(context.Background(),
			"SELECT email FROM users WHERE email = ?", "raw@example.com")
		if err != nil {
			t.Fatalf("RawQuery() error = %v", err)
		}
		if len(rows) != 1 || rows[0][schema.ColEmail] != "raw@example.com" {
			t.Errorf("RawQuery() = %v, want one row", rows)
		}
	})

	t.Run("memory", func(t *testing.T) {
		b := backends["memory"]
		if _, err := b.RawQuery(context.Background(), "SELECT 1"); !errors.Is(err, ErrRawUnsupported) {
			t.Errorf("RawQuery() error = %v, want ErrRawUnsupported", err)
		}
	})
}
