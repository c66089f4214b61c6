package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
)

type stubDashboardService struct {
	summary    dto.DashboardSummary
	summaryErr error
	summaryUID string
	ladderReq  dto.LadderRequest
}

func (s *stubDashboardService) Summary(_ context.Context, uid string) (dto.DashboardSummary, error) {
	s.summaryUID = uid
	return s.summary, s.summaryErr
}

func (s *stubDashboardService) Ladder(_ context.Context, req dto.LadderRequest) []dto.LadderGoal {
	s.ladderReq = req
	return []dto.LadderGoal{{Name: "Reserva de Emergência", TargetAmount: 18000}}
}

func TestGetSummary_OK(t *testing.T) {
	svc := &stubDashboardService{summary: dto.DashboardSummary{Month: "2025-03", Score: 100}}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "uid1")
	rr := httptest.NewRecorder()
	h.GetSummary(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.summaryUID != "uid1" {
		t.Fatalf("summary uid = %q", svc.summaryUID)
	}
}

func TestGetSummary_ServiceError(t *testing.T) {
	svc := &stubDashboardService{summaryErr: errors.New("db failure")}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "uid1")
	rr := httptest.NewRecorder()
	h.GetSummary(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestSuggestLadder(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	body := `{"carPrice":75000,"housePrice":400000,"existingSavings":20000,"monthlyIncome":3000}`
	req := withUID(httptest.NewRequest(http.MethodPost, "/dashboard/ladder", strings.NewReader(body)), "uid1")
	rr := httptest.NewRecorder()
	h.SuggestLadder(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatalf("expected WriteSuccess, got error %v", resp.handleError)
	}
	if svc.ladderReq.CarPrice != 75000 || svc.ladderReq.MonthlyIncome != 3000 {
		t.Fatalf("unexpected ladder request: %+v", svc.ladderReq)
	}
}

func TestSuggestLadder_Negative(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: &stubDashboardService{}})

	req := httptest.NewRequest(http.MethodPost, "/dashboard/ladder", strings.NewReader(`{"monthlyIncome":-1}`))
	rr := httptest.NewRecorder()
	h.SuggestLadder(rr, req)

	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatal("expected validation failure")
	}
}
