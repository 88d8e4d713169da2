package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"payguard/internal/domain/audit"
	"payguard/internal/domain/employee"
	"payguard/internal/domain/risk"
	"payguard/internal/platform/events"
	"payguard/internal/platform/verdict"
)

type Settings struct {
	OTPTTL         time.Duration
	OTPMaxAttempts int
	EmailFrom      string
}

// Service runs the full adjudication path: score, route, create or
// advance a change request, and leave a ledger entry for every
// decision.
type Service struct {
	employees employee.StoreAPI
	requests  StoreAPI
	evaluator *risk.Evaluator
	auditor   *audit.Service
	verdicts  verdict.Client
	mailer    Mailer
	publisher events.Publisher
	settings  Settings
}

func NewService(employees employee.StoreAPI, requests StoreAPI, evaluator *risk.Evaluator, auditor *audit.Service, verdicts verdict.Client, mailer Mailer, publisher events.Publisher, settings Settings) *Service {
	return &Service{
		employees: employees,
		requests:  requests,
		evaluator: evaluator,
		auditor:   auditor,
		verdicts:  verdicts,
		mailer:    mailer,
		publisher: publisher,
		settings:  settings,
	}
}

// Evaluate adjudicates one account-change attempt. The risk event is
// recorded for every attempt regardless of the resulting path.
func (s *Service) Evaluate(ctx context.Context, employeeID string, rc risk.Context) (EvaluateResult, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return EvaluateResult{}, err
	}
	if emp.Frozen {
		return EvaluateResult{}, ErrEmployeeFrozen
	}

	assessment, err := s.evaluator.Evaluate(ctx, emp, rc)
	if err != nil {
		return EvaluateResult{}, err
	}

	at := rc.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if err := s.evaluator.Record(ctx, risk.NewEvent(emp.ID, rc.Action, assessment.Score, assessment.Codes, rc.IP, rc.DeviceID, at)); err != nil {
		return EvaluateResult{}, fmt.Errorf("record risk event: %w", err)
	}

	externalVerdict := s.verdicts.Classify(ctx, assessment.Score, assessment.Codes)
	path := Route(assessment.Score, externalVerdict)

	result := EvaluateResult{Score: assessment.Score, Codes: assessment.Codes, Path: path}

	switch path {
	case PathAutoApprove:
		if err := s.applyChange(ctx, emp.ID, changeFromContext(rc)); err != nil {
			return EvaluateResult{}, err
		}
		if err := s.employees.PromoteTrust(ctx, emp.ID, rc.IP, rc.DeviceID); err != nil {
			return EvaluateResult{}, err
		}
		if _, err := s.auditor.Append(ctx, emp.ID, rc.Action, audit.DecisionAllow, assessment.Codes, rc.DeviceID, rc.IP); err != nil {
			return EvaluateResult{}, err
		}
		s.publish(ctx, "change.approved", emp.ID, "", result)

	case PathOTPRequired:
		req := s.newRequest(emp, rc, StatusPendingOTP, assessment.Score)
		code, err := GenerateCode()
		if err != nil {
			return EvaluateResult{}, err
		}
		hash, err := HashCode(code)
		if err != nil {
			return EvaluateResult{}, err
		}
		expiry := time.Now().UTC().Add(s.settings.OTPTTL)
		req.CodeHash = hash
		req.CodeExpiresAt = &expiry
		if err := s.requests.Create(ctx, req); err != nil {
			return EvaluateResult{}, err
		}
		if _, err := s.auditor.Append(ctx, emp.ID, rc.Action, audit.DecisionChallenge, assessment.Codes, rc.DeviceID, rc.IP); err != nil {
			return EvaluateResult{}, err
		}
		s.sendCode(ctx, emp, code, expiry)
		result.ChangeRequestID = req.ID
		s.publish(ctx, "change.challenged", emp.ID, req.ID, result)

	case PathManagerRequired:
		req := s.newRequest(emp, rc, StatusPendingManager, assessment.Score)
		if err := s.requests.Create(ctx, req); err != nil {
			return EvaluateResult{}, err
		}
		if _, err := s.auditor.Append(ctx, emp.ID, rc.Action, audit.DecisionChallenge, assessment.Codes, rc.DeviceID, rc.IP); err != nil {
			return EvaluateResult{}, err
		}
		result.ChangeRequestID = req.ID
		s.publish(ctx, "change.escalated", emp.ID, req.ID, result)

	case PathBlock:
		req := s.newRequest(emp, rc, StatusPendingMultiApproval, assessment.Score)
		if err := s.requests.Create(ctx, req); err != nil {
			return EvaluateResult{}, err
		}
		if _, err := s.auditor.Append(ctx, emp.ID, rc.Action, audit.DecisionBlock, assessment.Codes, rc.DeviceID, rc.IP); err != nil {
			return EvaluateResult{}, err
		}
		result.ChangeRequestID = req.ID
		s.publish(ctx, "change.blocked", emp.ID, req.ID, result)
	}

	return result, nil
}

// VerifyCode checks a one-time code against a pending_otp request.
// Expired codes fail without mutating anything; repeated mismatches
// escalate to manager review.
func (s *Service) VerifyCode(ctx context.Context, requestID, code string) (VerifyResult, error) {
	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return VerifyResult{}, err
	}
	if req.Status != StatusPendingOTP {
		return VerifyResult{}, ErrStateConflict
	}
	if !CodeUsable(req.CodeExpiresAt, time.Now()) {
		return VerifyResult{Approved: false, Reason: "code_expired"}, ErrCodeExpired
	}

	if !CheckCode(req.CodeHash, code) {
		attempts, err := s.requests.IncrementFailedAttempts(ctx, requestID)
		if err != nil {
			return VerifyResult{}, err
		}
		if attempts >= s.settings.OTPMaxAttempts {
			if _, err := s.requests.Escalate(ctx, requestID, StatusPendingOTP, StatusPendingManager); err != nil {
				return VerifyResult{}, err
			}
			return VerifyResult{Approved: false, Reason: "code_mismatch_escalated"}, nil
		}
		return VerifyResult{Approved: false, Reason: "code_mismatch"}, nil
	}

	ok, err := s.requests.Resolve(ctx, requestID, StatusPendingOTP, StatusApproved, "", "")
	if err != nil {
		return VerifyResult{}, err
	}
	if !ok {
		return VerifyResult{}, ErrStateConflict
	}
	if err := s.commitApproval(ctx, req); err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{Approved: true, Reason: "code_verified"}, nil
}

// Decide resolves a request awaiting human review. Denying a
// multi-party request additionally opens an investigation case.
func (s *Service) Decide(ctx context.Context, requestID, approverID string, approve bool, note string) (string, error) {
	if approverID == "" {
		return "", fmt.Errorf("approver identity is required")
	}
	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return "", err
	}
	if req.Status != StatusPendingManager && req.Status != StatusPendingMultiApproval {
		return "", ErrStateConflict
	}

	if approve {
		ok, err := s.requests.Resolve(ctx, requestID, req.Status, StatusApproved, approverID, note)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrStateConflict
		}
		if err := s.commitApproval(ctx, req); err != nil {
			return "", err
		}
		return StatusApproved, nil
	}

	ok, err := s.requests.Resolve(ctx, requestID, req.Status, StatusDenied, approverID, note)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrStateConflict
	}
	if _, err := s.auditor.Append(ctx, req.EmployeeID, auditAction(req.ChangeType), audit.DecisionBlock, []string{"REVIEW_DENIED"}, req.DeviceID, req.IP); err != nil {
		return "", err
	}
	if req.Status == StatusPendingMultiApproval {
		if err := s.requests.CreateCase(ctx, NewCase(req.ID, req.EmployeeID, note, approverID)); err != nil {
			return "", err
		}
	}
	s.publish(ctx, "change.denied", req.EmployeeID, req.ID, nil)
	return StatusDenied, nil
}

func (s *Service) Get(ctx context.Context, requestID string) (ChangeRequest, error) {
	return s.requests.Get(ctx, requestID)
}

// Receipt builds the externally shareable proof for a change request.
func (s *Service) Receipt(ctx context.Context, requestID string) (audit.Receipt, error) {
	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return audit.Receipt{}, err
	}
	return audit.NewReceipt(req.ID, req.EmployeeID, req.Status, req.Score, req.CreatedAt), nil
}

// commitApproval applies the proposed change to the employee record,
// promotes the originating ip/device into the trust sets, and appends
// the allow ledger entry.
func (s *Service) commitApproval(ctx context.Context, req ChangeRequest) error {
	if err := s.applyChange(ctx, req.EmployeeID, change{
		changeType: req.ChangeType,
		routing:    req.ProposedRouting,
		account:    req.ProposedAccount,
		address:    req.ProposedAddress,
	}); err != nil {
		return err
	}
	if err := s.employees.PromoteTrust(ctx, req.EmployeeID, req.IP, req.DeviceID); err != nil {
		return err
	}
	if _, err := s.auditor.Append(ctx, req.EmployeeID, auditAction(req.ChangeType), audit.DecisionAllow, []string{"CHANGE_COMMITTED"}, req.DeviceID, req.IP); err != nil {
		return err
	}
	s.publish(ctx, "change.approved", req.EmployeeID, req.ID, nil)
	return nil
}

type change struct {
	changeType string
	routing    string
	account    string
	address    employee.Address
}

func changeFromContext(rc risk.Context) change {
	c := change{routing: rc.ProposedRouting, account: rc.ProposedAccount}
	if rc.ProposedAddress != nil {
		c.address = *rc.ProposedAddress
	}
	if rc.Action == risk.ActionAddressChange {
		c.changeType = ChangeTypeAddress
	} else {
		c.changeType = ChangeTypeDeposit
	}
	return c
}

func (s *Service) applyChange(ctx context.Context, employeeID string, c change) error {
	switch c.changeType {
	case ChangeTypeAddress:
		return s.employees.UpdateAddress(ctx, employeeID, c.address)
	default:
		return s.employees.UpdateBankAccount(ctx, employeeID, c.routing, c.account)
	}
}

func (s *Service) newRequest(emp employee.Employee, rc risk.Context, status string, score int) ChangeRequest {
	c := changeFromContext(rc)
	return NewChangeRequest(emp.ID, c.changeType, status, score, c.routing, c.account, c.address, rc.IP, rc.DeviceID)
}

func (s *Service) sendCode(ctx context.Context, emp employee.Employee, code string, expiry time.Time) {
	body := fmt.Sprintf("Your verification code is %s. It expires at %s.", code, expiry.Format(time.RFC3339))
	if err := s.mailer.Send(ctx, s.settings.EmailFrom, emp.Email, "Verify your account change", body); err != nil {
		slog.Warn("one-time code delivery failed", "employeeId", emp.ID, "err", err)
	}
}

func (s *Service) publish(ctx context.Context, key, employeeID, requestID string, payload any) {
	body := map[string]any{"employeeId": employeeID}
	if requestID != "" {
		body["changeRequestId"] = requestID
	}
	if payload != nil {
		body["result"] = payload
	}
	if err := s.publisher.Publish(ctx, key, body); err != nil {
		slog.Warn("decision event publish failed", "routingKey", key, "err", err)
	}
}

func auditAction(changeType string) string {
	if changeType == ChangeTypeAddress {
		return risk.ActionAddressChange
	}
	return risk.ActionDepositChange
}
