package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nemde-constraints/internal/api/models"
	"nemde-constraints/internal/mms"
	"nemde-constraints/internal/nemde"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubArchive map[string]map[string]*mms.Table

func (s stubArchive) FetchTable(_ context.Context, year, month int, table string) (*mms.Table, error) {
	period := fmt.Sprintf("%04d-%02d", year, month)
	if tables, ok := s[period]; ok {
		if t, ok := tables[table]; ok {
			return t, nil
		}
	}
	return nil, &mms.NotFoundError{Op: "FetchTable", Resource: "table", Key: fmt.Sprintf("%s %s", table, period)}
}

func fixture(t *testing.T, name, raw string) *mms.Table {
	t.Helper()
	table, err := mms.ParseTable(name, strings.NewReader(raw))
	require.NoError(t, err)
	return table
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	archive := stubArchive{"2023-06": {
		nemde.TableGenConData: fixture(t, nemde.TableGenConData, `C,x
I,G,G,1,GENCONID,CONSTRAINTTYPE,DESCRIPTION
D,G,G,1,N_X_LIM,<=,"NSW line limit"
D,G,G,1,Q_RAISE,>=,"QLD raise requirement"
C,"END OF REPORT",3
`),
		nemde.TableConnectionPointLHS: fixture(t, nemde.TableConnectionPointLHS, `C,x
I,S,S,1,GENCONID,CONNECTIONPOINTID,FACTOR,BIDTYPE
D,S,S,1,N_X_LIM,NBW1,1,ENOF
C,"END OF REPORT",2
`),
		nemde.TableInterconnectorLHS: fixture(t, nemde.TableInterconnectorLHS, `C,x
I,S,S,1,GENCONID,INTERCONNECTORID,FACTOR
C,"END OF REPORT",1
`),
		nemde.TableRegionLHS: fixture(t, nemde.TableRegionLHS, `C,x
I,S,S,1,GENCONID,REGIONID,FACTOR
C,"END OF REPORT",1
`),
		nemde.TableDispatchableUnits: fixture(t, nemde.TableDispatchableUnits, `C,x
I,D,D,1,CONNECTIONPOINTID,DUID
D,D,D,1,NBW1,BW01
C,"END OF REPORT",2
`),
		nemde.TableConstraintRHS: fixture(t, nemde.TableConstraintRHS, `C,x
I,R,R,1,GENCONID,TERMID,GROUPID,SPD_ID,SPD_TYPE,FACTOR,OPERATION
D,R,R,1,N_X_LIM,1,1,NSW1_LINE_MW,A,1,
C,"END OF REPORT",2
`),
		nemde.TableEMSMaster: fixture(t, nemde.TableEMSMaster, `C,x
I,E,E,1,SPD_ID,DESCRIPTION
D,E,E,1,NSW1_LINE_MW,"MW flow on line X"
C,"END OF REPORT",2
`),
		nemde.TableGenericEquationDesc: fixture(t, nemde.TableGenericEquationDesc, `C,x
I,Q,Q,1,EQUATIONID,DESCRIPTION
D,Q,Q,1,X_NSW_AVG,"Rolling average of NSW line flows"
C,"END OF REPORT",2
`),
		nemde.TableGenericEquationRHS: fixture(t, nemde.TableGenericEquationRHS, `C,x
I,Q,Q,1,EQUATIONID,TERMID,GROUPID,SPD_ID,SPD_TYPE,FACTOR,OPERATION
D,Q,Q,1,X_NSW_AVG,1,1,NSW1_LINE_MW,A,0.5,
C,"END OF REPORT",2
`),
	}}

	svc := nemde.New(archive, nil)
	constraintHandler := NewConstraintHandler(svc)
	functionHandler := NewFunctionHandler(svc)

	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/constraints", constraintHandler.List)
	api.GET("/constraints/search", constraintHandler.Search)
	api.GET("/constraints/:id", constraintHandler.Details)
	api.GET("/constraints/:id/lhs", constraintHandler.LHS)
	api.GET("/constraints/:id/rhs", constraintHandler.RHS)
	api.GET("/functions", functionHandler.List)
	api.GET("/functions/:id", functionHandler.Terms)
	return router
}

func do(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// errorArchive fails every fetch with a fixed error, for exercising the
// error-to-status mapping.
type errorArchive struct {
	err error
}

func (e errorArchive) FetchTable(context.Context, int, int, string) (*mms.Table, error) {
	return nil, e.err
}

func errorRouter(err error) *gin.Engine {
	svc := nemde.New(errorArchive{err: err}, nil)
	router := gin.New()
	router.GET("/api/v1/constraints", NewConstraintHandler(svc).List)
	return router
}

func TestListConstraints(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints?year=2023&month=6")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConstraintListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "N_X_LIM", resp.Constraints[0].ID)
}

func TestListConstraints_Prefix(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints?year=2023&month=6&prefix=Q_")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConstraintListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Q_RAISE", resp.Constraints[0].ID)
}

func TestListConstraints_MissingPeriod(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestListConstraints_UnpublishedPeriod(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints?year=2023&month=7")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestListConstraints_MalformedArchive(t *testing.T) {
	router := errorRouter(&mms.ParseError{Table: nemde.TableGenConData, Reason: "no header row"})
	w := do(t, router, "/api/v1/constraints?year=2023&month=6")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ARCHIVE_MALFORMED", resp.Error.Code)
	assert.Equal(t, nemde.TableGenConData, resp.Error.Details["table"])
}

func TestListConstraints_ArchiveUnreachable(t *testing.T) {
	router := errorRouter(&mms.TransportError{URL: "https://nemweb.com.au/x", StatusCode: http.StatusServiceUnavailable})
	w := do(t, router, "/api/v1/constraints?year=2023&month=6")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ARCHIVE_UNREACHABLE", resp.Error.Code)
}

func TestSearchConstraints(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints/search?year=2023&month=6&q=raise")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConstraintListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Q_RAISE", resp.Constraints[0].ID)
}

func TestSearchConstraints_EmptyQueryReturnsAll(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints/search?year=2023&month=6")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConstraintListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestSearchConstraints_NoMatchIsEmptyNotError(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints/search?year=2023&month=6&q=zzz")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConstraintListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
}

func TestConstraintDetails(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints/N_X_LIM?year=2023&month=6")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConstraintDetailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "N_X_LIM", resp.Constraint.ID)
	require.Len(t, resp.LHS, 1)
	require.Len(t, resp.RHS, 1)
	assert.Contains(t, resp.Equation, "N_X_LIM")
	assert.Contains(t, resp.Equation, "<=")
}

func TestConstraintDetails_NotFound(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints/NONEXISTENT_ID?year=2023&month=6")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLHSTermsCSVFormat(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints/N_X_LIM/lhs?year=2023&month=6&format=csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "spot,type,id,duid,bid_type,factor")
	assert.Contains(t, w.Body.String(), "1,CONNECTIONPOINT,NBW1,BW01,ENOF,1.000000")
}

func TestRHSTerms(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/constraints/N_X_LIM/rhs?year=2023&month=6")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RHSTermsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Terms, 1)
	assert.Equal(t, "NSW1_LINE_MW", resp.Terms[0].SPDID)
	assert.Equal(t, "MW flow on line X", resp.Terms[0].Description)
}

func TestListFunctions(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/functions?year=2023&month=6&q=average")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.FunctionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "X_NSW_AVG", resp.Functions[0].ID)
}

func TestFunctionTerms(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/functions/X_NSW_AVG?year=2023&month=6")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.FunctionTermsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Terms, 1)
	assert.Equal(t, 1, resp.Terms[0].Spot)
}

func TestFunctionTerms_NotFound(t *testing.T) {
	router := testRouter(t)
	w := do(t, router, "/api/v1/functions/X_NOPE?year=2023&month=6")
	require.Equal(t, http.StatusNotFound, w.Code)
}
