package risk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"payguard/internal/domain/employee"
	"payguard/internal/platform/geo"
)

const (
	velocityWindow   = 10 * time.Minute
	highScoreWindow  = time.Hour
	routingWindow    = 7 * 24 * time.Hour
	baselineWindow   = 30 * 24 * time.Hour
	newAccountAge    = 30 * 24 * time.Hour
	freshLoginWindow = 5 * time.Minute
	highScoreFloor   = 70
	burstAttempts    = 5
	elevatedAttempts = 3
	routingAdopters  = 2
	highScoreEvents  = 3
	elevatedAvgScore = 60
	oddHoursFrom     = 23
	oddHoursUntil    = 6
)

// Evaluator turns an employee's trust state plus request context into a
// score and the list of reason codes that fired. It reads aggregates
// from the event store but never writes anything.
type Evaluator struct {
	store StoreAPI
	geo   geo.Resolver
}

func NewEvaluator(store StoreAPI, resolver geo.Resolver) *Evaluator {
	return &Evaluator{store: store, geo: resolver}
}

func (e *Evaluator) Evaluate(ctx context.Context, emp employee.Employee, rc Context) (Assessment, error) {
	at := rc.At
	if at.IsZero() {
		at = time.Now()
	}

	score := 0
	var codes []string
	hit := func(code string, weight int) {
		score += weight
		codes = append(codes, code)
	}

	if !emp.RecognizesIP(rc.IP) {
		hit(CodeUnknownIP, weightUnknownIP)
	}
	if rc.DeviceID != employee.UnknownDevice && !emp.RecognizesDevice(rc.DeviceID) {
		hit(CodeUnknownDevice, weightUnknownDevice)
	}

	attempts, err := e.store.CountAttemptsSince(ctx, emp.ID, at.Add(-velocityWindow))
	if err != nil {
		return Assessment{}, fmt.Errorf("count recent attempts: %w", err)
	}
	switch {
	case attempts >= burstAttempts:
		hit(CodeVelocityBurst, weightVelocityBurst)
	case attempts >= elevatedAttempts:
		hit(CodeVelocityElevated, weightVelocityElevated)
	}

	if hour := at.Hour(); hour >= oddHoursFrom || hour < oddHoursUntil {
		hit(CodeOddHours, weightOddHours)
	}
	if emp.AccountAge(at) < newAccountAge {
		hit(CodeNewAccount, weightNewAccount)
	}
	if rc.LastLoginAt != nil && at.Sub(*rc.LastLoginAt) < freshLoginWindow {
		hit(CodeFreshLogin, weightFreshLogin)
	}

	highScore, err := e.store.CountHighScoreSince(ctx, emp.ID, highScoreFloor, at.Add(-highScoreWindow))
	if err != nil {
		return Assessment{}, fmt.Errorf("count high-score events: %w", err)
	}
	if highScore >= highScoreEvents {
		hit(CodeHighRiskHistory, weightHighRiskHistory)
	}

	if rc.ProposedRouting != "" {
		adopters, err := e.store.CountRoutingAdoptersSince(ctx, rc.ProposedRouting, emp.ID, at.Add(-routingWindow))
		if err != nil {
			return Assessment{}, fmt.Errorf("count routing adopters: %w", err)
		}
		if adopters >= routingAdopters {
			hit(CodeSharedRouting, weightSharedRouting)
		}
	}

	loc := e.geo.Resolve(ctx, rc.IP)
	if loc.Proxy || loc.Hosting {
		hit(CodeProxyIP, weightProxyIP)
	}
	if loc.Known {
		refCountry, refRegion := emp.Address.Country, emp.Address.Region
		if rc.ProposedAddress != nil {
			refCountry, refRegion = rc.ProposedAddress.Country, rc.ProposedAddress.Region
		}
		switch {
		case refCountry != "" && !strings.EqualFold(loc.Country, refCountry):
			hit(CodeGeoCountryMismatch, weightGeoCountryMismatch)
		case refRegion != "" && !strings.EqualFold(loc.Region, refRegion):
			hit(CodeGeoRegionMismatch, weightGeoRegionMismatch)
		case !loc.Proxy && !loc.Hosting:
			hit(CodeGeoMatch, weightGeoMatchBonus)
		}
	}

	switch {
	case rc.ProposedRouting != "" && rc.ProposedRouting != emp.BaselineRouting:
		hit(CodeRoutingChanged, weightRoutingChanged)
	case rc.ProposedAccount != "" && rc.ProposedAccount != emp.BaselineAccount:
		hit(CodeAccountChanged, weightAccountChanged)
	}

	avg, err := e.store.AverageScoreSince(ctx, emp.ID, at.Add(-baselineWindow))
	if err != nil {
		return Assessment{}, fmt.Errorf("average historical score: %w", err)
	}
	if avg > elevatedAvgScore {
		hit(CodeElevatedBaseline, weightElevatedBaseline)
	}

	return Assessment{Score: clamp(score), Codes: codes}, nil
}

// Record persists the risk event produced by one evaluation.
func (e *Evaluator) Record(ctx context.Context, event Event) error {
	return e.store.Insert(ctx, event)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
