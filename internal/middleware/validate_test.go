package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineInput struct {
	ProductID string `json:"productId" binding:"required,mongodb"`
	Quantity  *int   `json:"quantity" binding:"required,min=1"`
}

type sampleInput struct {
	Name  string      `json:"name" binding:"required,min=2,max=50"`
	Price *float64    `json:"price" binding:"required"`
	Kind  string      `json:"kind" binding:"omitempty,oneof=a b"`
	Lines []lineInput `json:"lines" binding:"omitempty,dive"`
}

func bindEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/bind", BindJSON[sampleInput](), func(c *gin.Context) {
		in := Payload[sampleInput](c)
		c.JSON(http.StatusOK, gin.H{"name": in.Name})
	})
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (string, []string) {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	var details []string
	_ = json.Unmarshal(body.Details, &details)
	return body.Error, details
}

func TestBindJSONCollectsAllViolations(t *testing.T) {
	w := post(bindEngine(), `{"name":"A","kind":"c","lines":[{"productId":"nope","quantity":0}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	msg, details := decodeError(t, w)
	assert.Equal(t, "validation failed", msg)
	assert.ElementsMatch(t, []string{
		"name must be at least 2 characters",
		"price is required",
		"kind must be one of [a, b]",
		"lines[0].productId must be a valid id",
		"lines[0].quantity must be at least 1",
	}, details)
}

func TestBindJSONBoundary(t *testing.T) {
	r := bindEngine()

	w := post(r, `{"name":"AB","price":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"AB"}`, w.Body.String())

	w = post(r, `{"name":"A","price":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindJSONMalformedBodies(t *testing.T) {
	r := bindEngine()

	w := post(r, ``)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid body","details":"request body is required"}`, w.Body.String())

	w = post(r, `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	msg, _ := decodeError(t, w)
	assert.Equal(t, "invalid body", msg)

	w = post(r, `{"name":"Shoes","price":"cheap"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	msg, details := decodeError(t, w)
	assert.Equal(t, "validation failed", msg)
	assert.Equal(t, []string{"price must be of type number"}, details)
}

func TestPayloadWithoutBinder(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Payload[sampleInput](c))
}

func TestBindJSONReportsTypeErrorsWithOtherViolations(t *testing.T) {
	r := bindEngine()

	w := post(r, `{"name":"A","price":"cheap"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	msg, details := decodeError(t, w)
	assert.Equal(t, "validation failed", msg)
	assert.ElementsMatch(t, []string{
		"price must be of type number",
		"name must be at least 2 characters",
	}, details)

	w = post(r, `{"name":"AB","price":1,"lines":[{"productId":"","quantity":1.5}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	_, details = decodeError(t, w)
	assert.ElementsMatch(t, []string{
		"lines[0].quantity must be of type integer",
		"lines[0].productId is required",
	}, details)
}

func TestBindBodyTypeErrorPathKeepsIndex(t *testing.T) {
	useJSONFieldNames()
	body := []byte(`{"name":"Lamp","price":2,"lines":[` +
		`{"productId":"64b7f0c2a1b2c3d4e5f60718","quantity":1},` +
		`{"productId":"64b7f0c2a1b2c3d4e5f60718","quantity":"two"}]}`)

	var in sampleInput
	err := bindBody(body, &in)
	assert.Equal(t, []string{"lines[1].quantity must be of type integer"}, ValidationMessages(err))
}

func TestBindJSONTrimsBeforeValidating(t *testing.T) {
	r := bindEngine()

	w := post(r, `{"name":"  A  ","price":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	_, details := decodeError(t, w)
	assert.Equal(t, []string{"name must be at least 2 characters"}, details)

	w = post(r, `{"name":"   ","price":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	_, details = decodeError(t, w)
	assert.Equal(t, []string{"name is required"}, details)

	w = post(r, `{"name":"  AB ","price":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"AB"}`, w.Body.String())
}

func TestTrimStringsSkipsOptOutFields(t *testing.T) {
	type credentials struct {
		Email    string  `json:"email"`
		Nickname *string `json:"nickname"`
		Password string  `json:"password" trim:"-"`
	}
	nick := " neo "
	in := credentials{Email: " a@b.test ", Nickname: &nick, Password: " secret "}

	trimStrings(reflect.ValueOf(&in))
	assert.Equal(t, "a@b.test", in.Email)
	assert.Equal(t, "neo", *in.Nickname)
	assert.Equal(t, " secret ", in.Password)
}

func TestBindJSONRejectsNonObjectBody(t *testing.T) {
	w := post(bindEngine(), `["Shoes"]`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	_, details := decodeError(t, w)
	require.NotEmpty(t, details)
	assert.Equal(t, "body must be of type object", details[0])
}
