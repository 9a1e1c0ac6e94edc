package server

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"donatelife/internal/auth"
	"donatelife/internal/feed"
	"donatelife/internal/intent"
	"donatelife/internal/metrics"
	"donatelife/pkg/types"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const donorDialogOpen = `id="donor-registration" open`

type fakeAuth struct {
	mu sync.Mutex

	signIn      func(email, password string) (*auth.Session, error)
	signUp      func(name, email, password string) (bool, error)
	confirmErr  error
	identity    types.Identity
	profileErr  error
	updateErr   error
	updatedName string
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (*auth.Session, error) {
	if f.signIn == nil {
		return nil, auth.ErrInvalidCredential
	}
	return f.signIn(email, password)
}

func (f *fakeAuth) SignUp(_ context.Context, name, email, password string) (bool, error) {
	if f.signUp == nil {
		return false, errors.New("sign up not configured")
	}
	return f.signUp(name, email, password)
}

func (f *fakeAuth) ConfirmSignUp(context.Context, string, string) error {
	return f.confirmErr
}

func (f *fakeAuth) Profile(context.Context, string) (types.Identity, error) {
	if f.profileErr != nil {
		return types.Identity{}, f.profileErr
	}
	return f.identity, nil
}

func (f *fakeAuth) UpdateDisplayName(_ context.Context, _ string, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedName = name
	return nil
}

type fakeVerifier struct {
	mu     sync.Mutex
	tokens map[string]*auth.Claims
}

func (v *fakeVerifier) Verify(_ context.Context, accessToken string) (*auth.Claims, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	claims, ok := v.tokens[accessToken]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

func (v *fakeVerifier) add(token, userID, email string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = &auth.Claims{Subject: userID, Email: email}
}

type fakeDonorRepo struct {
	mu sync.Mutex

	donors    []*types.Donor
	lookupErr error
	listErr   error
	createErr error
	countErr  error
	calls     int
}

func (f *fakeDonorRepo) DonorByUserID(_ context.Context, userID string) (*types.Donor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, d := range f.donors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, types.ErrDonorNotFound
}

func (f *fakeDonorRepo) Donors(context.Context) ([]*types.Donor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*types.Donor(nil), f.donors...), nil
}

func (f *fakeDonorRepo) CountDonors(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.donors), nil
}

func (f *fakeDonorRepo) CreateDonor(_ context.Context, donor *types.Donor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.createErr != nil {
		return f.createErr
	}
	for _, d := range f.donors {
		if d.UserID == donor.UserID {
			return types.ErrDonorExists
		}
	}
	donor.ID = "donor-" + donor.UserID
	f.donors = append(f.donors, donor)
	return nil
}

func (f *fakeDonorRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRequestRepo struct {
	mu sync.Mutex

	requests  []*types.BloodRequest
	listErr   error
	createErr error
	countErr  error
	calls     int
}

func (f *fakeRequestRepo) Requests(context.Context) ([]*types.BloodRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*types.BloodRequest(nil), f.requests...), nil
}

func (f *fakeRequestRepo) CountRequests(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.requests), nil
}

func (f *fakeRequestRepo) CreateRequest(_ context.Context, request *types.BloodRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.createErr != nil {
		return f.createErr
	}
	request.ID = "request-" + request.PatientName
	f.requests = append(f.requests, request)
	return nil
}

type harness struct {
	svc      *Service
	auth     *fakeAuth
	verifier *fakeVerifier
	donors   *fakeDonorRepo
	requests *fakeRequestRepo
	broker   *feed.LocalBroker
	metrics  *metrics.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	config := &types.Config{
		ServerPort:       8080,
		ReadTimeoutSec:   10,
		WriteTimeoutSec:  15,
		CookieName:       "session_id",
		SessionMaxAgeSec: 3600,
		CookieSecure:     false,
		CookieHashKey:    base64.StdEncoding.EncodeToString([]byte(strings.Repeat("h", 32))),
		CookieBlockKey:   base64.StdEncoding.EncodeToString([]byte(strings.Repeat("b", 32))),
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := &harness{
		auth:     &fakeAuth{},
		verifier: &fakeVerifier{tokens: map[string]*auth.Claims{}},
		donors:   &fakeDonorRepo{},
		requests: &fakeRequestRepo{},
		broker:   feed.NewLocal(),
		metrics:  metrics.New(),
	}

	svc, err := New(config, logger, h.auth, h.verifier, h.donors, h.requests, h.broker, h.metrics)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	h.svc = svc

	return h
}

// signIn registers a token for the user and returns a jar holding its session.
func (h *harness) signIn(t *testing.T, userID, email string) jar {
	t.Helper()

	token := "token-" + userID
	h.verifier.add(token, userID, email)

	value, err := h.svc.cookie.Encode(h.svc.config.CookieName, token)
	require.NoError(t, err)

	return jar{h.svc.config.CookieName: &http.Cookie{Name: h.svc.config.CookieName, Value: value}}
}

func (h *harness) withIntent(t *testing.T, j jar, in intent.Intent) {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, h.svc.intents.Save(rec, in))
	j.update(rec.Result())
}

func (h *harness) intent(j jar) intent.Intent {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	j.apply(req)
	return h.svc.intents.Load(req)
}

func (h *harness) get(j jar, target string) *http.Response {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return h.do(j, req)
}

func (h *harness) post(j jar, target string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(j, req)
}

func (h *harness) do(j jar, req *http.Request) *http.Response {
	if j != nil {
		j.apply(req)
	}

	rec := httptest.NewRecorder()
	h.svc.Handler().ServeHTTP(rec, req)

	res := rec.Result()
	if j != nil {
		j.update(res)
	}
	return res
}

// jar is a minimal cookie jar keyed by cookie name.
type jar map[string]*http.Cookie

func (j jar) apply(r *http.Request) {
	for _, c := range j {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

func (j jar) update(res *http.Response) {
	for _, c := range res.Cookies() {
		if c.MaxAge < 0 {
			delete(j, c.Name)
			continue
		}
		j[c.Name] = c
	}
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func location(t *testing.T, res *http.Response) *url.URL {
	t.Helper()

	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	u, err := url.Parse(res.Header.Get("Location"))
	require.NoError(t, err)
	return u
}

func validDonorForm() url.Values {
	return url.Values{
		"fullName":          {"Jane Donor"},
		"email":             {"jane@example.com"},
		"countryCode":       {"+92"},
		"phone":             {"3001234567"},
		"bloodType":         {"O+"},
		"dob":               {"1990-05-01"},
		"eligibilityAge":    {"yes"},
		"eligibilityWeight": {"yes"},
		"eligibilityTattoo": {"no"},
		"eligibilityHealth": {"yes"},
	}
}

func validRequestForm() url.Values {
	return url.Values{
		"patientName":       {"Ali Khan"},
		"hospitalName":      {"City Hospital"},
		"requiredBloodType": {"AB-"},
		"urgency":           {"Critical"},
		"contactPerson":     {"Sara Khan"},
		"countryCode":       {"+92"},
		"contactPhone":      {"3007654321"},
	}
}

func TestProtectedRoutesRedirectBeforeStoreAccess(t *testing.T) {
	h := newHarness(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/donors"},
		{http.MethodPost, "/requests"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var res *http.Response
			if tc.method == http.MethodPost {
				res = h.post(jar{}, tc.path, validDonorForm())
			} else {
				res = h.get(jar{}, tc.path)
			}

			assert.Equal(t, "/login", location(t, res).Path)
		})
	}

	assert.Zero(t, h.donors.callCount())
	assert.Empty(t, h.requests.requests)
}

func TestRequireAuthRemembersRequestedPage(t *testing.T) {
	h := newHarness(t)
	j := jar{}

	res := h.get(j, "/profile")
	assert.Equal(t, "/login", location(t, res).Path)
	require.Contains(t, j, redirectCookieName)
	assert.Equal(t, "/profile", j[redirectCookieName].Value)

	h.auth.signIn = func(email, password string) (*auth.Session, error) {
		h.verifier.add("token-ada", "user-ada", email)
		return &auth.Session{AccessToken: "token-ada", ExpiresIn: 3600}, nil
	}

	res = h.post(j, "/login", url.Values{
		"mode":     {"signin"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
	})
	assert.Equal(t, "/profile", location(t, res).Path)
	assert.NotContains(t, j, redirectCookieName)
}

func TestEventStreamIsNotRememberedForLogin(t *testing.T) {
	h := newHarness(t)
	j := jar{}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	res := h.do(j, req)

	assert.Equal(t, "/login", location(t, res).Path)
	assert.NotContains(t, j, redirectCookieName)
}

func TestLoginRoleQuerySelectsSignUp(t *testing.T) {
	h := newHarness(t)
	j := jar{}

	res := h.get(j, "/login?role=donor")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Create an account")
	assert.Equal(t, types.RoleDonor, h.intent(j).Role)

	// an unknown role clears the role but keeps the sign-up flag
	h.withIntent(t, j, intent.Intent{Role: types.RoleDonor, JustSignedUp: true})
	res = h.get(j, "/login?role=admin")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Welcome back")
	assert.Equal(t, intent.Intent{JustSignedUp: true}, h.intent(j))
}

func TestSignInFailureShowsMessage(t *testing.T) {
	h := newHarness(t)

	res := h.post(jar{}, "/login", url.Values{
		"mode":     {"signin"},
		"email":    {"ada@example.com"},
		"password": {"wrong"},
	})

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Incorrect email or password.")
}

func TestSignUpPasswordPolicyIsAFieldError(t *testing.T) {
	h := newHarness(t)
	h.auth.signUp = func(name, email, password string) (bool, error) {
		return false, fmt.Errorf("failed to sign up: %w", auth.ErrWeakPassword)
	}

	res := h.post(jar{}, "/login", url.Values{
		"mode":            {"signup"},
		"fullName":        {"Rae Receiver"},
		"email":           {"rae@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	})

	require.Equal(t, http.StatusOK, res.StatusCode)
	page := body(t, res)
	assert.Contains(t, page, "Password must include uppercase, lowercase, number, and symbol.")
	assert.Contains(t, page, `value="rae@example.com"`)
}

func TestUnconfirmedSignUpRedirectsToConfirmation(t *testing.T) {
	h := newHarness(t)
	j := jar{}

	h.auth.signUp = func(name, email, password string) (bool, error) { return false, nil }

	h.get(j, "/login?role=receiver")
	res := h.post(j, "/login", url.Values{
		"mode":            {"signup"},
		"fullName":        {"Rae Receiver"},
		"email":           {"rae@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	})

	u := location(t, res)
	assert.Equal(t, "/register/confirm", u.Path)
	assert.Equal(t, "rae@example.com", u.Query().Get("email"))
	assert.False(t, h.intent(j).JustSignedUp)

	res = h.post(j, "/register/confirm", url.Values{
		"email": {"rae@example.com"},
		"code":  {"123456"},
	})
	u = location(t, res)
	assert.Equal(t, "/login", u.Path)
	assert.Equal(t, "true", u.Query().Get("confirmed"))
	assert.Equal(t, "receiver", u.Query().Get("role"))
}

func TestDonorSignUpOpensRegistrationOnce(t *testing.T) {
	h := newHarness(t)
	j := jar{}

	h.auth.signUp = func(name, email, password string) (bool, error) { return true, nil }
	h.auth.signIn = func(email, password string) (*auth.Session, error) {
		h.verifier.add("token-jane", "user-jane", email)
		return &auth.Session{AccessToken: "token-jane", ExpiresIn: 3600}, nil
	}
	h.auth.identity = types.Identity{Email: "jane@example.com", DisplayName: "Jane Donor"}

	h.get(j, "/login?role=donor")
	res := h.post(j, "/login", url.Values{
		"mode":            {"signup"},
		"fullName":        {"Jane Donor"},
		"email":           {"jane@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	})
	assert.Equal(t, "/dashboard", location(t, res).Path)
	assert.Equal(t, intent.Intent{Role: types.RoleDonor, JustSignedUp: true}, h.intent(j))

	res = h.get(j, "/dashboard")
	require.Equal(t, http.StatusOK, res.StatusCode)
	page := body(t, res)
	assert.Contains(t, page, "Welcome, Jane Donor!")
	assert.Contains(t, page, donorDialogOpen)
	assert.True(t, h.intent(j).IsZero())
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.DonorPrompts))

	// refreshing without closing or submitting the dialog
	for i := 0; i < 2; i++ {
		res = h.get(j, "/dashboard")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.NotContains(t, body(t, res), donorDialogOpen)
		assert.True(t, h.intent(j).IsZero())
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.DonorPrompts))
}

func TestExistingDonorIsNeverPrompted(t *testing.T) {
	h := newHarness(t)
	h.donors.donors = []*types.Donor{{
		ID:        "donor-1",
		UserID:    "user-jane",
		FullName:  "Jane Donor",
		BloodType: "O+",
		DOB:       "1990-05-01T00:00:00.000Z",
		CreatedAt: "2024-05-01T00:00:00.000Z",
	}}

	j := h.signIn(t, "user-jane", "jane@example.com")
	pending := intent.Intent{Role: types.RoleDonor, JustSignedUp: true}
	h.withIntent(t, j, pending)

	res := h.get(j, "/dashboard?register=donor")
	require.Equal(t, http.StatusOK, res.StatusCode)

	page := body(t, res)
	assert.NotContains(t, page, donorDialogOpen)
	assert.Contains(t, page, "My Donor Information")
	assert.Contains(t, page, "Not yet recorded")
	assert.Equal(t, pending, h.intent(j))
	assert.Zero(t, testutil.ToFloat64(h.metrics.DonorPrompts))
}

func TestUnknownDonorStatusLeavesIntentAlone(t *testing.T) {
	h := newHarness(t)
	h.donors.lookupErr = errors.New("connection refused")

	j := h.signIn(t, "user-jane", "jane@example.com")
	pending := intent.Intent{Role: types.RoleDonor, JustSignedUp: true}
	h.withIntent(t, j, pending)

	res := h.get(j, "/dashboard?register=donor")
	require.Equal(t, http.StatusOK, res.StatusCode)

	page := body(t, res)
	assert.Contains(t, page, "Checking your donor status...")
	assert.NotContains(t, page, donorDialogOpen)
	assert.Equal(t, pending, h.intent(j))
}

func TestRegisterQueryOpensDialogForNonDonor(t *testing.T) {
	h := newHarness(t)
	j := h.signIn(t, "user-ada", "ada@example.com")

	res := h.get(j, "/dashboard?register=donor")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), donorDialogOpen)

	res = h.get(j, "/dashboard?request=open")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), `id="blood-request" open`)
}

func TestPostDonor(t *testing.T) {
	t.Run("invalid submission re-renders with messages", func(t *testing.T) {
		h := newHarness(t)
		j := h.signIn(t, "user-jane", "jane@example.com")

		form := validDonorForm()
		form.Set("fullName", "J")
		form.Set("eligibilityTattoo", "yes")

		res := h.post(j, "/donors", form)
		require.Equal(t, http.StatusOK, res.StatusCode)

		page := body(t, res)
		assert.Contains(t, page, donorDialogOpen)
		assert.Contains(t, page, "Full name must be at least 2 characters.")
		assert.Contains(t, page, "You must not have had a tattoo")
		assert.Contains(t, page, `value="3001234567"`)
		assert.Empty(t, h.donors.donors)
	})

	t.Run("valid submission creates one donor and notifies", func(t *testing.T) {
		h := newHarness(t)
		j := h.signIn(t, "user-jane", "jane@example.com")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		events, err := h.broker.Subscribe(ctx)
		require.NoError(t, err)

		res := h.post(j, "/donors", validDonorForm())
		u := location(t, res)
		assert.Equal(t, "/dashboard", u.Path)
		assert.Equal(t, msgDonorCreated, u.Query().Get("notice"))

		res = h.get(j, "/dashboard")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.NotContains(t, body(t, res), donorDialogOpen)

		require.Len(t, h.donors.donors, 1)
		donor := h.donors.donors[0]
		assert.Equal(t, "user-jane", donor.UserID)
		assert.Equal(t, "+923001234567", donor.Phone)
		assert.Equal(t, "1990-05-01T00:00:00.000Z", donor.DOB)
		assert.Nil(t, donor.LastDonation)

		select {
		case e := <-events:
			assert.Equal(t, feed.Event{Kind: feed.KindDonors, ID: donor.ID}, e)
		case <-time.After(time.Second):
			t.Fatal("expected a donors event")
		}

		assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.Submissions.WithLabelValues(kindDonor, metrics.OutcomeCreated)))
	})

	t.Run("second registration is rejected", func(t *testing.T) {
		h := newHarness(t)
		h.donors.donors = []*types.Donor{{ID: "donor-1", UserID: "user-jane"}}
		j := h.signIn(t, "user-jane", "jane@example.com")

		res := h.post(j, "/donors", validDonorForm())
		assert.Equal(t, msgDonorExists, location(t, res).Query().Get("error"))
		assert.Len(t, h.donors.donors, 1)
	})

	t.Run("write failure keeps the form", func(t *testing.T) {
		h := newHarness(t)
		h.donors.createErr = errors.New("insert failed")
		j := h.signIn(t, "user-jane", "jane@example.com")

		res := h.post(j, "/donors", validDonorForm())
		require.Equal(t, http.StatusOK, res.StatusCode)

		page := body(t, res)
		assert.Contains(t, page, "There was an error submitting your registration.")
		assert.Contains(t, page, donorDialogOpen)
		assert.Contains(t, page, `value="Jane Donor"`)
	})

	t.Run("concurrent submission is rejected", func(t *testing.T) {
		h := newHarness(t)
		j := h.signIn(t, "user-jane", "jane@example.com")

		require.NoError(t, h.svc.latch.TryAcquire("user-jane:"+kindDonor))
		defer h.svc.latch.Release("user-jane:" + kindDonor)

		res := h.post(j, "/donors", validDonorForm())
		assert.Equal(t, msgSubmitInProgress, location(t, res).Query().Get("error"))
		assert.Empty(t, h.donors.donors)
	})
}

func TestPostRequest(t *testing.T) {
	t.Run("valid submission", func(t *testing.T) {
		h := newHarness(t)
		j := h.signIn(t, "user-sara", "sara@example.com")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		events, err := h.broker.Subscribe(ctx)
		require.NoError(t, err)

		form := validRequestForm()
		form.Set("additionalInfo", "Ward 4")

		res := h.post(j, "/requests", form)
		assert.Equal(t, msgRequestCreated, location(t, res).Query().Get("notice"))

		require.Len(t, h.requests.requests, 1)
		request := h.requests.requests[0]
		assert.Equal(t, "user-sara", request.UserID)
		assert.Equal(t, types.UrgencyCritical, request.Urgency)
		assert.Equal(t, "+923007654321", request.ContactPhone)
		require.NotNil(t, request.AdditionalInfo)
		assert.Equal(t, "Ward 4", *request.AdditionalInfo)

		select {
		case e := <-events:
			assert.Equal(t, feed.KindRequests, e.Kind)
		case <-time.After(time.Second):
			t.Fatal("expected a requests event")
		}
	})

	t.Run("invalid submission", func(t *testing.T) {
		h := newHarness(t)
		j := h.signIn(t, "user-sara", "sara@example.com")

		form := validRequestForm()
		form.Set("urgency", "Whenever")

		res := h.post(j, "/requests", form)
		require.Equal(t, http.StatusOK, res.StatusCode)

		page := body(t, res)
		assert.Contains(t, page, `id="blood-request" open`)
		assert.Contains(t, page, "Please select an urgency level.")
		assert.Empty(t, h.requests.requests)
	})
}

func TestDashboardListingFilters(t *testing.T) {
	h := newHarness(t)
	h.donors.donors = []*types.Donor{
		{ID: "d1", UserID: "u1", FullName: "Alice Shah", BloodType: "O+", CreatedAt: "2024-05-30T12:00:00.000Z"},
		{ID: "d2", UserID: "u2", FullName: "Bilal Ahmed", BloodType: "O+", CreatedAt: "2024-05-30T12:00:00.000Z"},
		{ID: "d3", UserID: "u3", FullName: "Alina Noor", BloodType: "A-", CreatedAt: "2024-05-30T12:00:00.000Z"},
	}
	h.requests.requests = []*types.BloodRequest{
		{ID: "r1", PatientName: "Omar Farooq", RequiredBloodType: "B+", Urgency: types.UrgencyHigh, CreatedAt: "2024-06-01T11:00:00.000Z"},
		{ID: "r2", PatientName: "Hina Malik", RequiredBloodType: "AB-", Urgency: types.UrgencyLow, CreatedAt: "2024-06-01T11:00:00.000Z"},
	}
	j := h.signIn(t, "user-ada", "ada@example.com")

	res := h.get(j, "/dashboard?tab=donors&donor_q=ali&donor_blood_type=O%2B")
	require.Equal(t, http.StatusOK, res.StatusCode)
	page := body(t, res)
	assert.Contains(t, page, "Alice Shah")
	assert.NotContains(t, page, "Bilal Ahmed")
	assert.NotContains(t, page, "Alina Noor")
	assert.Contains(t, page, "Registered 2 days ago")

	res = h.get(j, "/dashboard?request_q=&request_blood_type=all")
	page = body(t, res)
	assert.Contains(t, page, "Omar Farooq")
	assert.Contains(t, page, "Hina Malik")
	assert.Contains(t, page, "urgency-high")

	res = h.get(j, "/dashboard?request_blood_type=O-")
	assert.Contains(t, body(t, res), "No active blood requests matching your criteria.")
}

func TestDashboardListingsUnavailable(t *testing.T) {
	h := newHarness(t)
	h.requests.listErr = errors.New("timeout")
	j := h.signIn(t, "user-ada", "ada@example.com")

	res := h.get(j, "/dashboard")
	require.Equal(t, http.StatusOK, res.StatusCode)

	page := body(t, res)
	assert.Contains(t, page, "Listings are temporarily unavailable.")
	assert.NotContains(t, page, "No active blood requests matching your criteria.")
}

func TestProfileDisplayName(t *testing.T) {
	h := newHarness(t)
	h.auth.identity = types.Identity{Email: "ada@example.com"}
	j := h.signIn(t, "user-ada", "ada@example.com")

	res := h.get(j, "/profile")
	require.Equal(t, http.StatusOK, res.StatusCode)
	page := body(t, res)
	assert.Contains(t, page, "Anonymous User")
	assert.Contains(t, page, "Registered as: Blood Recipient")

	res = h.post(j, "/profile/name", url.Values{"displayName": {"A"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Display name must be at least 2 characters.")
	assert.Empty(t, h.auth.updatedName)

	res = h.post(j, "/profile/name", url.Values{"displayName": {"  Ada L  "}})
	assert.Equal(t, msgProfileUpdated, location(t, res).Query().Get("notice"))
	assert.Equal(t, "Ada L", h.auth.updatedName)

	h.auth.updateErr = errors.New("throttled")
	res = h.post(j, "/profile/name", url.Values{"displayName": {"Ada Lovelace"}})
	assert.Equal(t, msgProfileFailed, location(t, res).Query().Get("error"))
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	j := h.signIn(t, "user-ada", "ada@example.com")

	res := h.post(j, "/logout", url.Values{})
	assert.Equal(t, "/", location(t, res).Path)
	assert.NotContains(t, j, h.svc.config.CookieName)

	res = h.get(j, "/dashboard")
	assert.Equal(t, "/login", location(t, res).Path)
}

func TestLogoutClearsIntent(t *testing.T) {
	h := newHarness(t)

	// user-a signed up as a donor and never reached the dashboard
	j := h.signIn(t, "user-a", "a@example.com")
	h.withIntent(t, j, intent.Intent{Role: types.RoleDonor, JustSignedUp: true})

	res := h.post(j, "/logout", url.Values{})
	assert.Equal(t, "/", location(t, res).Path)
	assert.NotContains(t, j, intent.CookieName)

	// user-b signs in from the same browser
	for name, c := range h.signIn(t, "user-b", "b@example.com") {
		j[name] = c
	}

	res = h.get(j, "/dashboard")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, body(t, res), donorDialogOpen)
	assert.True(t, h.intent(j).IsZero())
	assert.Zero(t, testutil.ToFloat64(h.metrics.DonorPrompts))
}

func TestHomeShowsStats(t *testing.T) {
	h := newHarness(t)
	h.donors.donors = []*types.Donor{{ID: "d1"}, {ID: "d2"}}
	h.requests.requests = []*types.BloodRequest{{ID: "r1"}}

	res := h.get(nil, "/")
	require.Equal(t, http.StatusOK, res.StatusCode)

	page := body(t, res)
	assert.Contains(t, page, `<span class="stat-value" id="stat-donors">2</span>`)
	assert.Contains(t, page, `<span class="stat-value" id="stat-requests">1</span>`)
	assert.Contains(t, page, "Become a Donor")
	assert.NotContains(t, page, "Some statistics are temporarily unavailable.")
}

func TestHomeMarksFailedCountsUnavailable(t *testing.T) {
	h := newHarness(t)
	h.donors.countErr = errors.New("connection refused")
	h.requests.requests = []*types.BloodRequest{{ID: "r1"}}

	res := h.get(nil, "/")
	require.Equal(t, http.StatusOK, res.StatusCode)

	page := body(t, res)
	assert.Contains(t, page, `<span class="stat-value stat-unavailable" id="stat-donors">Unavailable</span>`)
	assert.NotContains(t, page, `id="stat-donors">0<`)
	assert.Contains(t, page, `<span class="stat-value" id="stat-requests">1</span>`)
	assert.Contains(t, page, "Some statistics are temporarily unavailable.")
}

func TestDashboardEventsStream(t *testing.T) {
	h := newHarness(t)
	j := h.signIn(t, "user-ada", "ada@example.com")

	srv := httptest.NewServer(h.svc.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/dashboard/events", nil)
	require.NoError(t, err)
	j.apply(req)

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	reader := bufio.NewReader(res.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(h.metrics.FeedSubscribers) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, h.broker.Publish(ctx, feed.Event{Kind: feed.KindRequests, ID: "r1"}))

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: requests\n", line)

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: {\"kind\":\"requests\",\"id\":\"r1\"}\n", line)
}
