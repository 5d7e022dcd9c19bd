package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/services"
	"github.com/SscSPs/wallet_app/internal/dto"
	"github.com/SscSPs/wallet_app/internal/handlers"
	"github.com/SscSPs/wallet_app/internal/platform/config"
	"github.com/SscSPs/wallet_app/internal/repositories/memory"
	"github.com/SscSPs/wallet_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "handler-test-secret"

type MockReputationChecker struct {
	mock.Mock
}

func (m *MockReputationChecker) Check(ctx context.Context, identity string) error {
	return m.Called(ctx, identity).Error(0)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("db down") }

type HandlersTestSuite struct {
	suite.Suite
	router     *gin.Engine
	cfg        *config.Config
	reputation *MockReputationChecker
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = &config.Config{
		JWTSecret:         testJWTSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "wallet-test",
		SessionCookieName: "token",
		DefaultCurrency:   "NGN",
		LoginRateLimit:    "100-M",
	}
	s.reputation = new(MockReputationChecker)
	s.reputation.On("Check", mock.Anything, mock.Anything).Return(nil).Maybe()

	repos := memory.NewRepositoryProvider()
	container := services.NewServiceContainer(s.cfg, repos, services.WithReputation(s.reputation))

	s.router = gin.New()
	s.Require().NoError(handlers.RegisterRoutes(s.router, s.cfg, handlers.Dependencies{
		Services: container,
		Health:   repos.Health,
	}))
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// signUp registers a user, logs in and opens an account. It returns the token and account.
func (s *HandlersTestSuite) signUp(email string) (string, dto.AccountResponse) {
	w := s.do(http.MethodPost, "/api/wallet/users", "", gin.H{"name": "Test User", "email": email, "password": "secret123"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/wallet/users/login", "", gin.H{"email": email, "password": "secret123"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var login dto.LoginResponse
	s.decode(w, &login)

	w = s.do(http.MethodPost, "/api/wallet/accounts", login.Token, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var acc dto.AccountResponse
	s.decode(w, &acc)
	return login.Token, acc
}

func (s *HandlersTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	r := gin.New()
	s.Require().NoError(handlers.RegisterRoutes(r, s.cfg, handlers.Dependencies{
		Services: services.NewServiceContainer(s.cfg, memory.NewRepositoryProvider()),
		Health:   failingPinger{},
	}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *HandlersTestSuite) TestRegister() {
	w := s.do(http.MethodPost, "/api/wallet/users", "", gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret123"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var user dto.UserResponse
	s.decode(w, &user)
	s.Equal("ada@example.com", user.Email)
	s.NotContains(w.Body.String(), "secret123")

	w = s.do(http.MethodPost, "/api/wallet/users", "", gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret123"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/wallet/users", "", gin.H{"name": "Ada", "email": "not-an-email", "password": "secret123"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestRegister_ReputationRejected() {
	s.reputation.ExpectedCalls = nil
	s.reputation.On("Check", mock.Anything, "debtor@example.com").Return(apperrors.ErrReputationCheckFailed)

	w := s.do(http.MethodPost, "/api/wallet/users", "", gin.H{"name": "Debtor", "email": "debtor@example.com", "password": "secret123"})
	s.Equal(http.StatusForbidden, w.Code)
	var res handlers.ErrorResponse
	s.decode(w, &res)
	s.Equal(apperrors.ErrReputationCheckFailed.Error(), res.Error)
}

func (s *HandlersTestSuite) TestLogin() {
	w := s.do(http.MethodPost, "/api/wallet/users", "", gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret123"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/wallet/users/login", "", gin.H{"email": "ada@example.com", "password": "secret123"})
	s.Require().Equal(http.StatusOK, w.Code)
	var login dto.LoginResponse
	s.decode(w, &login)
	s.NotEmpty(login.Token)
	s.Equal("ada@example.com", login.User.Email)

	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("token", cookies[0].Name)
	s.Equal(login.Token, cookies[0].Value)
	s.True(cookies[0].HttpOnly)

	wrong := s.do(http.MethodPost, "/api/wallet/users/login", "", gin.H{"email": "ada@example.com", "password": "nope"})
	s.Equal(http.StatusUnauthorized, wrong.Code)
	unknown := s.do(http.MethodPost, "/api/wallet/users/login", "", gin.H{"email": "who@example.com", "password": "secret123"})
	s.Equal(http.StatusUnauthorized, unknown.Code)
	s.Equal(wrong.Body.String(), unknown.Body.String())
}

func (s *HandlersTestSuite) TestLogin_RateLimited() {
	s.cfg.LoginRateLimit = "2-M"
	r := gin.New()
	s.Require().NoError(handlers.RegisterRoutes(r, s.cfg, handlers.Dependencies{
		Services: services.NewServiceContainer(s.cfg, memory.NewRepositoryProvider()),
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/wallet/users/login", bytes.NewBufferString(`{"email":"a@example.com","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	s.Equal([]int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func (s *HandlersTestSuite) TestProtectedRoutesRequireAuth() {
	for _, path := range []string{"/api/wallet/accounts", "/api/wallet/transactions"} {
		w := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, w.Code, path)
	}
	w := s.do(http.MethodPost, "/api/wallet/transactions/deposit", "garbage", gin.H{"amount": "10"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestSessionCookieAuthenticates() {
	token, _ := s.signUp("cookie@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/accounts", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestAccountLifecycle() {
	w := s.do(http.MethodPost, "/api/wallet/users", "", gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret123"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var user dto.UserResponse
	s.decode(w, &user)
	token, err := utils.GenerateJWT(user.UserID, testJWTSecret, time.Hour, "wallet-test")
	s.Require().NoError(err)

	w = s.do(http.MethodGet, "/api/wallet/accounts", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var empty dto.GetAccountResponse
	s.decode(w, &empty)
	s.Nil(empty.Account)
	s.NotEmpty(empty.Message)

	w = s.do(http.MethodPost, "/api/wallet/accounts", token, nil)
	s.Require().Equal(http.StatusCreated, w.Code)
	var created dto.AccountResponse
	s.decode(w, &created)
	s.Len(created.AccountNumber, 10)
	s.Equal("NGN", created.CurrencyCode)

	w = s.do(http.MethodPost, "/api/wallet/accounts", token, nil)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/wallet/accounts", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var got dto.GetAccountResponse
	s.decode(w, &got)
	s.Require().NotNil(got.Account)
	s.Equal(created.AccountID, got.Account.AccountID)

	w = s.do(http.MethodPost, "/api/wallet/transactions/deposit", token, gin.H{"amount": "5"})
	s.Require().Equal(http.StatusCreated, w.Code)
	w = s.do(http.MethodDelete, "/api/wallet/accounts", token, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/wallet/transactions/withdraw", token, gin.H{"amount": "5"})
	s.Require().Equal(http.StatusCreated, w.Code)
	w = s.do(http.MethodDelete, "/api/wallet/accounts", token, nil)
	s.Equal(http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, "/api/wallet/accounts", token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestDepositWithdrawScenario() {
	token, acc := s.signUp("ada@example.com")

	w := s.do(http.MethodPost, "/api/wallet/transactions/deposit", token, gin.H{"amount": "1000"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var dep dto.TransactionResponse
	s.decode(w, &dep)
	s.Equal("DEPOSIT", string(dep.Type))
	s.Equal("COMPLETED", string(dep.Status))
	s.Equal(acc.AccountID, dep.AccountID)

	w = s.do(http.MethodPost, "/api/wallet/transactions/withdraw", token, gin.H{"amount": 500})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/wallet/transactions/withdraw", token, gin.H{"amount": "1000"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/wallet/accounts", token, nil)
	var got dto.GetAccountResponse
	s.decode(w, &got)
	s.Require().NotNil(got.Account)
	s.Equal("500", got.Account.Balance.String())

	w = s.do(http.MethodGet, "/api/wallet/transactions", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListTransactionsResponse
	s.decode(w, &list)
	s.Require().Len(list.Transactions, 3)
	s.Equal("FAILED", string(list.Transactions[2].Status))
	s.Nil(list.NextToken)

	w = s.do(http.MethodGet, "/api/wallet/transactions/"+dep.TransactionID, token, nil)
	s.Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/wallet/transactions/does-not-exist", token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestAmountValidation() {
	token, _ := s.signUp("ada@example.com")

	for _, body := range []any{
		gin.H{"amount": "0"},
		gin.H{"amount": "-5"},
		gin.H{"amount": "abc"},
		gin.H{"amount": "0.00005"},
		gin.H{"amount": "10000000000000000"},
		gin.H{},
	} {
		w := s.do(http.MethodPost, "/api/wallet/transactions/deposit", token, body)
		s.Equal(http.StatusBadRequest, w.Code, "%v", body)
	}

	w := s.do(http.MethodPost, "/api/wallet/transactions/deposit", token, gin.H{"amount": "0.0001"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/wallet/transactions/withdraw", token, gin.H{"amount": "0.00005"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/wallet/transactions/transfer", token, gin.H{"amount": "5"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/wallet/transactions", token, nil)
	var list dto.ListTransactionsResponse
	s.decode(w, &list)
	s.Len(list.Transactions, 1)

	w = s.do(http.MethodGet, "/api/wallet/accounts", token, nil)
	var got dto.GetAccountResponse
	s.decode(w, &got)
	s.Require().NotNil(got.Account)
	s.Equal("0.0001", got.Account.Balance.String())
}

func (s *HandlersTestSuite) TestTransferScenario() {
	tokenA, _ := s.signUp("a@example.com")
	tokenB, accB := s.signUp("b@example.com")

	w := s.do(http.MethodPost, "/api/wallet/transactions/deposit", tokenA, gin.H{"amount": "2000"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/wallet/transactions/transfer", tokenA, gin.H{"amount": "500", "receiver": accB.AccountNumber})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var txn dto.TransactionResponse
	s.decode(w, &txn)
	s.Equal("TRANSFER", string(txn.Type))
	s.Equal(accB.AccountID, txn.ReceiverAccountID)

	w = s.do(http.MethodPost, "/api/wallet/transactions/transfer", tokenA, gin.H{"amount": "1", "receiver": "0000000000"})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/wallet/accounts", tokenB, nil)
	var got dto.GetAccountResponse
	s.decode(w, &got)
	s.Require().NotNil(got.Account)
	s.Equal("500", got.Account.Balance.String())

	w = s.do(http.MethodGet, "/api/wallet/transactions/"+txn.TransactionID, tokenB, nil)
	s.Equal(http.StatusOK, w.Code)
	tokenC, _ := s.signUp("c@example.com")
	w = s.do(http.MethodGet, "/api/wallet/transactions/"+txn.TransactionID, tokenC, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestListPaging() {
	token, _ := s.signUp("ada@example.com")
	for i := 0; i < 3; i++ {
		w := s.do(http.MethodPost, "/api/wallet/transactions/deposit", token, gin.H{"amount": "1"})
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w := s.do(http.MethodGet, "/api/wallet/transactions?limit=2", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListTransactionsResponse
	s.decode(w, &page)
	s.Len(page.Transactions, 2)
	s.Require().NotNil(page.NextToken)

	w = s.do(http.MethodGet, "/api/wallet/transactions?limit=2&nextToken="+*page.NextToken, token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var rest dto.ListTransactionsResponse
	s.decode(w, &rest)
	s.Len(rest.Transactions, 1)

	w = s.do(http.MethodGet, "/api/wallet/transactions?limit=0", token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodGet, "/api/wallet/transactions?limit=2&nextToken=***", token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestTransactionsWithoutAccount() {
	w := s.do(http.MethodPost, "/api/wallet/users", "", gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret123"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var user dto.UserResponse
	s.decode(w, &user)
	token, err := utils.GenerateJWT(user.UserID, testJWTSecret, time.Hour, "wallet-test")
	s.Require().NoError(err)

	w = s.do(http.MethodPost, "/api/wallet/transactions/deposit", token, gin.H{"amount": "10"})
	s.Equal(http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/api/wallet/transactions", token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestGoogleLoginURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:         testJWTSecret,
		JWTExpiryDuration: time.Hour,
		LoginRateLimit:    "5-M",
		GoogleClientID:    "client-id",
		GoogleRedirectURL: "http://localhost:3000/callback",
	}
	r := gin.New()
	require.NoError(t, handlers.RegisterRoutes(r, cfg, handlers.Dependencies{
		Services: services.NewServiceContainer(cfg, memory.NewRepositoryProvider()),
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/wallet/users/oauth/google/url", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var res dto.GoogleLoginURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.State)
	assert.Contains(t, res.URL, "client_id=client-id")
	assert.Contains(t, res.URL, "state="+res.State)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/users/oauth/google/exchange-code", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
