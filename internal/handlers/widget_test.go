package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tablekit/tableboard-backend/internal/dto"
	"github.com/tablekit/tableboard-backend/internal/errs"
	"github.com/tablekit/tableboard-backend/internal/models"
)

// --- Stub widget service ---

type stubWidgetService struct {
	widget     *models.Widget
	widgets    []*models.Widget
	err        error
	deleteErr  error
	dataResp   dto.WidgetDataResponse
	layoutData dto.LayoutDataResponse

	lastCreateUID string
	lastCreateReq dto.CreateWidgetRequest
	lastUpdateID  string
	lastUpdateReq dto.UpdateWidgetRequest
	lastDeleteID  string
	lastDataID    string
	lastLayoutID  string
}

func (s *stubWidgetService) CreateWidget(_ context.Context, uid string, req dto.CreateWidgetRequest) (*models.Widget, error) {
	s.lastCreateUID = uid
	s.lastCreateReq = req
	return s.widget, s.err
}

func (s *stubWidgetService) GetWidget(_ context.Context, _ string) (*models.Widget, error) {
	return s.widget, s.err
}

func (s *stubWidgetService) ListWidgets(_ context.Context) ([]*models.Widget, error) {
	return s.widgets, s.err
}

func (s *stubWidgetService) UpdateWidget(_ context.Context, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error) {
	s.lastUpdateID = widgetID
	s.lastUpdateReq = req
	return s.widget, s.err
}

func (s *stubWidgetService) DeleteWidget(_ context.Context, widgetID string) error {
	s.lastDeleteID = widgetID
	return s.deleteErr
}

func (s *stubWidgetService) GetWidgetData(_ context.Context, widgetID string) (dto.WidgetDataResponse, error) {
	s.lastDataID = widgetID
	return s.dataResp, s.err
}

func (s *stubWidgetService) GetLayoutData(_ context.Context, layoutID string) (dto.LayoutDataResponse, error) {
	s.lastLayoutID = layoutID
	return s.layoutData, s.err
}

// --- Tests ---

func TestCreateWidget_OK(t *testing.T) {
	svc := &stubWidgetService{widget: &models.Widget{WidgetID: "w1", Type: dto.WidgetTypeFlow}}
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: svc})

	body := `{"name":"Deal stages","type":"flow","settings":{"flow":{"tableId":"tbl1","fieldId":"stage","stages":[{"value":"open","label":"Open","color":"#0f0"}]}}}`
	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(body))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.CreateWidget(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastCreateUID != "uid1" {
		t.Errorf("expected uid=uid1, got %s", svc.lastCreateUID)
	}
	if svc.lastCreateReq.Type != dto.WidgetTypeFlow {
		t.Errorf("unexpected type: %s", svc.lastCreateReq.Type)
	}
	if svc.lastCreateReq.Settings.Flow == nil || len(svc.lastCreateReq.Settings.Flow.Stages) != 1 {
		t.Errorf("flow settings not decoded: %+v", svc.lastCreateReq.Settings)
	}
}

func TestCreateWidget_InvalidJSON(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: &stubWidgetService{}})

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader("not-json"))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.CreateWidget(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on invalid JSON")
	}
}

func TestCreateWidget_ServiceError(t *testing.T) {
	svc := &stubWidgetService{err: errs.NewValidationError("unknown widget type: gauge")}
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"name":"W","type":"gauge"}`))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.CreateWidget(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on service error")
	}
}

func TestGetWidget_OK(t *testing.T) {
	svc := &stubWidgetService{widget: &models.Widget{WidgetID: "w1"}}
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/widgets/w1", nil)
	req = withChiParam(req, "widgetId", "w1")
	rr := httptest.NewRecorder()
	h.GetWidget(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
}

func TestUpdateWidget_OK(t *testing.T) {
	svc := &stubWidgetService{widget: &models.Widget{WidgetID: "w1"}}
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: svc})

	body := `{"name":"Renamed"}`
	req := httptest.NewRequest(http.MethodPut, "/widgets/w1", strings.NewReader(body))
	req = withChiParam(req, "widgetId", "w1")
	rr := httptest.NewRecorder()
	h.UpdateWidget(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if svc.lastUpdateID != "w1" {
		t.Errorf("expected widgetId=w1, got %s", svc.lastUpdateID)
	}
	if svc.lastUpdateReq.Name == nil || *svc.lastUpdateReq.Name != "Renamed" {
		t.Errorf("unexpected update request: %+v", svc.lastUpdateReq)
	}
	if svc.lastUpdateReq.Settings != nil {
		t.Error("absent settings should decode as nil")
	}
}

func TestDeleteWidget_OK(t *testing.T) {
	svc := &stubWidgetService{}
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: svc})

	req := httptest.NewRequest(http.MethodDelete, "/widgets/w1", nil)
	req = withChiParam(req, "widgetId", "w1")
	rr := httptest.NewRecorder()
	h.DeleteWidget(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess on delete")
	}
	if svc.lastDeleteID != "w1" {
		t.Errorf("expected widgetId=w1, got %s", svc.lastDeleteID)
	}
}

func TestGetWidgetData_Handler(t *testing.T) {
	svc := &stubWidgetService{
		dataResp: dto.WidgetDataResponse{WidgetID: "w1", Renderer: "FlowWidget"},
	}
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/widgets/w1/data", nil)
	req = withChiParam(req, "widgetId", "w1")
	rr := httptest.NewRecorder()
	h.GetWidgetData(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if svc.lastDataID != "w1" {
		t.Errorf("expected widgetId=w1, got %s", svc.lastDataID)
	}
}

func TestGetWidgetData_Unavailable(t *testing.T) {
	svc := &stubWidgetService{err: errs.NewDataUnavailableError("records offline")}
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/widgets/w1/data", nil)
	req = withChiParam(req, "widgetId", "w1")
	rr := httptest.NewRecorder()
	h.GetWidgetData(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on data source outage")
	}
}

func TestGetWidgetTypes_Catalog(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewWidgetHandlers(&Deps{ResponseHandler: resp, WidgetSvc: &stubWidgetService{}})

	req := httptest.NewRequest(http.MethodGet, "/widget-types", nil)
	rr := httptest.NewRecorder()
	h.GetWidgetTypes(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
	catalog, ok := resp.writeSuccessData.([]widgetTypeEntry)
	if !ok {
		t.Fatalf("expected []widgetTypeEntry, got %T", resp.writeSuccessData)
	}
	if len(catalog) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(catalog))
	}
	found := map[string]bool{}
	for _, e := range catalog {
		found[e.Type] = true
	}
	for _, typ := range []string{dto.WidgetTypeTable, dto.WidgetTypeField, dto.WidgetTypeFlow, dto.WidgetTypeProgress} {
		if !found[typ] {
			t.Errorf("expected %s in catalog", typ)
		}
	}
}
