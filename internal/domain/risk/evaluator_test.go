package risk

import (
	"context"
	"reflect"
	"testing"
	"time"

	"payguard/internal/domain/employee"
	"payguard/internal/platform/geo"
)

type fakeStore struct {
	events         []Event
	attempts       int
	highScore      int
	adopters       int
	averageScore   float64
	adoptedRouting string
}

func (f *fakeStore) Insert(ctx context.Context, event Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStore) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Event, error) {
	return f.events, nil
}

func (f *fakeStore) CountAttemptsSince(ctx context.Context, employeeID string, since time.Time) (int, error) {
	return f.attempts, nil
}

func (f *fakeStore) CountHighScoreSince(ctx context.Context, employeeID string, threshold int, since time.Time) (int, error) {
	return f.highScore, nil
}

func (f *fakeStore) CountRoutingAdoptersSince(ctx context.Context, routing, excludeEmployeeID string, since time.Time) (int, error) {
	if routing == f.adoptedRouting {
		return f.adopters, nil
	}
	return 0, nil
}

func (f *fakeStore) AverageScoreSince(ctx context.Context, employeeID string, since time.Time) (float64, error) {
	return f.averageScore, nil
}

// daytime avoids the odd-hours window in every test that does not
// target it.
var daytime = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func trustedEmployee() employee.Employee {
	emp := employee.New("Ada", "Osei", "ada@example.com", "021000021", "000123456", employee.Address{
		Street: "1 Main St", City: "Springfield", Region: "IL", Country: "US",
	})
	emp.KnownIPs = []string{"10.0.0.1"}
	emp.KnownDevices = []string{"laptop-1"}
	emp.CreatedAt = daytime.Add(-365 * 24 * time.Hour)
	return emp
}

func TestEvaluateUnknownIPOnly(t *testing.T) {
	emp := trustedEmployee()
	ev := NewEvaluator(&fakeStore{}, geo.New("", 0))

	got, err := ev.Evaluate(context.Background(), emp, Context{
		IP:              "203.0.113.9",
		DeviceID:        "laptop-1",
		Action:          ActionDepositChange,
		ProposedRouting: emp.BaselineRouting,
		ProposedAccount: emp.BaselineAccount,
		At:              daytime,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if got.Score != 30 {
		t.Fatalf("score = %d, want 30", got.Score)
	}
	if !reflect.DeepEqual(got.Codes, []string{CodeUnknownIP}) {
		t.Fatalf("codes = %v, want [UNKNOWN_IP]", got.Codes)
	}
}

func TestEvaluateKnownContextScoresZero(t *testing.T) {
	emp := trustedEmployee()
	ev := NewEvaluator(&fakeStore{}, geo.New("", 0))

	got, err := ev.Evaluate(context.Background(), emp, Context{
		IP:              "10.0.0.1",
		DeviceID:        "laptop-1",
		Action:          ActionDepositChange,
		ProposedRouting: emp.BaselineRouting,
		ProposedAccount: emp.BaselineAccount,
		At:              daytime,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if got.Score != 0 {
		t.Fatalf("score = %d, want 0", got.Score)
	}
	if len(got.Codes) != 0 {
		t.Fatalf("codes = %v, want none", got.Codes)
	}
}

func TestEvaluateBurstClampsAtHundred(t *testing.T) {
	emp := trustedEmployee()
	store := &fakeStore{attempts: 5}
	ev := NewEvaluator(store, geo.New("", 0))

	got, err := ev.Evaluate(context.Background(), emp, Context{
		IP:              "203.0.113.9",
		DeviceID:        "tablet-9",
		Action:          ActionDepositChange,
		ProposedRouting: "123456789",
		At:              daytime,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	// 30 + 30 + 40 + 40 raw; the returned score is clamped but every
	// contributing code is still reported.
	if got.Score != 100 {
		t.Fatalf("score = %d, want 100", got.Score)
	}
	want := []string{CodeUnknownIP, CodeUnknownDevice, CodeVelocityBurst, CodeRoutingChanged}
	if !reflect.DeepEqual(got.Codes, want) {
		t.Fatalf("codes = %v, want %v", got.Codes, want)
	}
}

func TestEvaluateElevatedVelocity(t *testing.T) {
	emp := trustedEmployee()
	ev := NewEvaluator(&fakeStore{attempts: 3}, geo.New("", 0))

	got, err := ev.Evaluate(context.Background(), emp, Context{
		IP:              "10.0.0.1",
		DeviceID:        "laptop-1",
		ProposedRouting: emp.BaselineRouting,
		At:              daytime,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.Score != 15 || !reflect.DeepEqual(got.Codes, []string{CodeVelocityElevated}) {
		t.Fatalf("got %d %v, want 15 [VELOCITY_ELEVATED]", got.Score, got.Codes)
	}
}

func TestEvaluateOddHours(t *testing.T) {
	emp := trustedEmployee()
	ev := NewEvaluator(&fakeStore{}, geo.New("", 0))

	late := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	got, err := ev.Evaluate(context.Background(), emp, Context{
		IP:              "10.0.0.1",
		DeviceID:        "laptop-1",
		ProposedRouting: emp.BaselineRouting,
		At:              late,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.Score != 20 || !reflect.DeepEqual(got.Codes, []string{CodeOddHours}) {
		t.Fatalf("got %d %v, want 20 [ODD_HOURS]", got.Score, got.Codes)
	}
}

func TestEvaluateGeoSignals(t *testing.T) {
	emp := trustedEmployee()

	cases := []struct {
		name      string
		location  geo.Location
		wantScore int
		wantCodes []string
	}{
		{
			name:      "country mismatch",
			location:  geo.Location{Country: "RO", Region: "B"},
			wantScore: 40,
			wantCodes: []string{CodeGeoCountryMismatch},
		},
		{
			name:      "region mismatch",
			location:  geo.Location{Country: "US", Region: "NV"},
			wantScore: 20,
			wantCodes: []string{CodeGeoRegionMismatch},
		},
		{
			name:      "full match earns the bonus",
			location:  geo.Location{Country: "US", Region: "IL"},
			wantScore: 0,
			wantCodes: []string{CodeGeoMatch},
		},
		{
			name:      "proxy flag stacks with mismatch",
			location:  geo.Location{Country: "RO", Region: "B", Proxy: true},
			wantScore: 75,
			wantCodes: []string{CodeProxyIP, CodeGeoCountryMismatch},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := geo.Static(map[string]geo.Location{"10.0.0.1": tc.location})
			ev := NewEvaluator(&fakeStore{}, resolver)

			got, err := ev.Evaluate(context.Background(), emp, Context{
				IP:              "10.0.0.1",
				DeviceID:        "laptop-1",
				ProposedRouting: emp.BaselineRouting,
				At:              daytime,
			})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got.Score != tc.wantScore {
				t.Fatalf("score = %d, want %d", got.Score, tc.wantScore)
			}
			if !reflect.DeepEqual(got.Codes, tc.wantCodes) {
				t.Fatalf("codes = %v, want %v", got.Codes, tc.wantCodes)
			}
		})
	}
}

func TestEvaluateRoutingChangeOutranksAccountChange(t *testing.T) {
	emp := trustedEmployee()
	ev := NewEvaluator(&fakeStore{}, geo.New("", 0))

	got, err := ev.Evaluate(context.Background(), emp, Context{
		IP:              "10.0.0.1",
		DeviceID:        "laptop-1",
		ProposedRouting: "999999999",
		ProposedAccount: "111222333",
		At:              daytime,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !reflect.DeepEqual(got.Codes, []string{CodeRoutingChanged}) {
		t.Fatalf("codes = %v, want [ROUTING_CHANGED] only", got.Codes)
	}
	if got.Score != 40 {
		t.Fatalf("score = %d, want 40", got.Score)
	}
}

func TestEvaluateSharedRouting(t *testing.T) {
	emp := trustedEmployee()
	store := &fakeStore{adopters: 2, adoptedRouting: "021000021"}
	ev := NewEvaluator(store, geo.New("", 0))

	got, err := ev.Evaluate(context.Background(), emp, Context{
		IP:              "10.0.0.1",
		DeviceID:        "laptop-1",
		ProposedRouting: "021000021",
		At:              daytime,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.Score != 35 || !reflect.DeepEqual(got.Codes, []string{CodeSharedRouting}) {
		t.Fatalf("got %d %v, want 35 [SHARED_ROUTING]", got.Score, got.Codes)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	emp := trustedEmployee()
	store := &fakeStore{attempts: 3, highScore: 3, averageScore: 65}
	ev := NewEvaluator(store, geo.New("", 0))

	rc := Context{
		IP:              "203.0.113.9",
		DeviceID:        "tablet-9",
		ProposedRouting: "123456789",
		At:              daytime,
	}

	first, err := ev.Evaluate(context.Background(), emp, rc)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	second, err := ev.Evaluate(context.Background(), emp, rc)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if first.Score != second.Score || !reflect.DeepEqual(first.Codes, second.Codes) {
		t.Fatalf("same inputs produced %v vs %v", first, second)
	}
}

func TestClampBounds(t *testing.T) {
	if got := clamp(-10); got != 0 {
		t.Fatalf("clamp(-10) = %d, want 0", got)
	}
	if got := clamp(145); got != 100 {
		t.Fatalf("clamp(145) = %d, want 100", got)
	}
	if got := clamp(55); got != 55 {
		t.Fatalf("clamp(55) = %d, want 55", got)
	}
}
