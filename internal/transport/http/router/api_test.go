package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"used-market/internal/core/auth"
	"used-market/internal/core/config"
	"used-market/internal/core/database"
	"used-market/internal/core/payment"
	"used-market/internal/domain"
	"used-market/internal/repo"
	"used-market/internal/service"
	mdw "used-market/internal/transport/http/middleware"
)

type stubIDP struct {
	mu      sync.Mutex
	err     error
	deleted []string
}

func (s *stubIDP) DeleteUser(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, uid)
	return nil
}

type stubGateway struct {
	amount   int64
	currency string
}

func (g *stubGateway) CreateIntent(_ context.Context, amount int64, currency string) (*payment.Intent, error) {
	g.amount, g.currency = amount, currency
	return &payment.Intent{ID: "pi_test", ClientSecret: "pi_test_secret", Amount: amount, Currency: currency}, nil
}

type brokenMarkSold struct{ *repo.ProductRepo }

func (brokenMarkSold) MarkSold(context.Context, string) (int64, error) {
	return 0, errors.New("connection reset")
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type APISuite struct {
	suite.Suite
	db  *gorm.DB
	cfg *config.Config
	jwt *auth.JWTer
	idp *stubIDP
	gw  *stubGateway
	r   *gin.Engine
}

func TestAPISuite(t *testing.T) { suite.Run(t, new(APISuite)) }

func (s *APISuite) SetupSuite() { gin.SetMode(gin.TestMode) }

func (s *APISuite) SetupTest() {
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	s.Require().NoError(err)
	s.Require().NoError(repo.AutoMigrate(db))
	s.db = db
	s.cfg = config.Default()
	s.cfg.Limits.PerIPRPS = 0
	s.cfg.Limits.RPS = 0
	s.jwt = &auth.JWTer{Secret: []byte("test-secret")}
	s.idp = &stubIDP{}
	s.gw = &stubGateway{}
	s.r = s.engine(nil)
}

// engine products 为 nil 时使用真实仓储
func (s *APISuite) engine(products domain.ProductRepository) *gin.Engine {
	users := repo.NewUserRepo(s.db)
	if products == nil {
		products = repo.NewProductRepo(s.db)
	}
	wishlist := repo.NewWishlistRepo(s.db)
	return NewAPIEngine(Deps{
		Cfg:      s.cfg,
		JWT:      s.jwt,
		Users:    service.NewUserService(users, s.idp, nil, nil),
		Products: service.NewProductService(products, users),
		Catalog:  service.NewCatalogService(repo.NewCategoryRepo(s.db), repo.NewBrandRepo(s.db), products, nil, 0),
		Wishlist: service.NewWishlistService(wishlist, products),
		Orders:   service.NewOrderService(repo.NewOrderRepo(s.db), products, wishlist, nil, nil),
		Checkout: service.NewCheckoutService(s.gw, "usd"),
	})
}

func (s *APISuite) token(uid string) string {
	tok, err := s.jwt.Issue(uid)
	s.Require().NoError(err)
	return tok
}

// call asUID 为空时不带 token
func (s *APISuite) call(method, path string, body any, asUID string, hdr ...string) (*httptest.ResponseRecorder, envelope) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if asUID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(asUID))
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *APISuite) count(model any, where string, args ...any) int64 {
	var n int64
	q := s.db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	s.Require().NoError(q.Count(&n).Error)
	return n
}

func (s *APISuite) seedUser(uid, role string) {
	s.Require().NoError(s.db.Create(&domain.User{ID: "id-" + uid, UID: uid, Name: uid, Email: uid + "@x.io", Role: role}).Error)
}

func (s *APISuite) seedProduct(id, author string) {
	s.Require().NoError(s.db.Create(&domain.Product{ID: id, AuthorID: author, Name: "Bike " + id, Price: 120, Category: "Bikes"}).Error)
}

func (s *APISuite) TestBanner() {
	w, _ := s.call(http.MethodGet, "/", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Used Server is running", w.Body.String())
}

func (s *APISuite) TestIssueToken() {
	w, env := s.call(http.MethodPost, "/used-jwt", gin.H{"uid": "alice"}, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var out struct{ Token string }
	s.Require().NoError(json.Unmarshal(env.Data, &out))
	claims, err := s.jwt.Parse(out.Token)
	s.Require().NoError(err)
	s.Equal("alice", claims.UID)

	w, env = s.call(http.MethodPost, "/used-jwt", gin.H{}, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(400, env.Code)
}

func (s *APISuite) TestCreateUserTwice() {
	body := gin.H{"uid": "alice", "name": "Alice", "email": "a@x.io"}
	w1, e1 := s.call(http.MethodPost, "/users", body, "")
	s.Require().Equal(http.StatusOK, w1.Code)
	w2, e2 := s.call(http.MethodPost, "/users", gin.H{"uid": "alice", "name": "Changed"}, "")
	s.Require().Equal(http.StatusOK, w2.Code)

	var u1, u2 domain.User
	s.Require().NoError(json.Unmarshal(e1.Data, &u1))
	s.Require().NoError(json.Unmarshal(e2.Data, &u2))
	s.Equal(u1.ID, u2.ID)
	s.Equal("Alice", u2.Name)
	s.Equal(domain.RoleMember, u2.Role)
	s.False(u2.Verified)
	s.Equal(int64(1), s.count(&domain.User{}, ""))

	w, env := s.call(http.MethodGet, "/users/nobody", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(404, env.Code)
}

func (s *APISuite) TestProductAuth() {
	product := gin.H{"authorID": "bob", "name": "Camera", "price": 50}

	w, env := s.call(http.MethodPost, "/product", product, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(401, env.Code)

	w, env = s.call(http.MethodPost, "/product", product, "alice")
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("forbidden access", env.Msg)
	s.Equal(int64(0), s.count(&domain.Product{}, ""))

	w, env = s.call(http.MethodPost, "/product", product, "bob")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var p domain.Product
	s.Require().NoError(json.Unmarshal(env.Data, &p))
	s.NotEmpty(p.ID)
	s.Equal(int64(1), s.count(&domain.Product{}, "author_id = ?", "bob"))
}

func (s *APISuite) TestMyProductsOwnerOnly() {
	s.seedProduct("p1", "bob")

	w, _ := s.call(http.MethodGet, "/my-products/bob", nil, "alice")
	s.Equal(http.StatusForbidden, w.Code)

	w, env := s.call(http.MethodGet, "/my-products/bob", nil, "bob")
	s.Require().Equal(http.StatusOK, w.Code)
	var list []domain.Product
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Len(list, 1)

	// body 声明 bob，但 token 是 alice
	w, _ = s.call(http.MethodDelete, "/my-products/p1", gin.H{"uid": "bob"}, "alice")
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(int64(1), s.count(&domain.Product{}, ""))

	w, _ = s.call(http.MethodPatch, "/my-products/p1", gin.H{"uid": "bob"}, "bob")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(int64(1), s.count(&domain.Product{}, "advertise = ?", true))

	w, _ = s.call(http.MethodDelete, "/my-products/p1", gin.H{"uid": "bob"}, "bob")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(int64(0), s.count(&domain.Product{}, ""))
}

func (s *APISuite) TestAdvertisedWithAuthor() {
	s.seedUser("bob", domain.RoleMember)
	s.seedProduct("p1", "bob")
	w, _ := s.call(http.MethodPatch, "/my-products/p1", gin.H{"uid": "bob"}, "bob")
	s.Require().Equal(http.StatusOK, w.Code)

	w, env := s.call(http.MethodGet, "/advertise-product", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var list []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Require().Len(list, 1)
	author, ok := list[0]["author"].(map[string]any)
	s.Require().True(ok)
	s.Equal("bob", author["name"])
	s.NotContains(author, "uid")
	s.NotContains(author, "role")
}

func (s *APISuite) TestAdminGate() {
	s.seedUser("member", domain.RoleMember)
	s.seedUser("boss", domain.RoleAdmin)

	w, _ := s.call(http.MethodGet, "/all-users", nil, "member")
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.call(http.MethodGet, "/all-users", nil, "ghost")
	s.Equal(http.StatusForbidden, w.Code)

	w, env := s.call(http.MethodGet, "/all-users?role=admin", nil, "boss")
	s.Require().Equal(http.StatusOK, w.Code)
	var users []domain.User
	s.Require().NoError(json.Unmarshal(env.Data, &users))
	s.Require().Len(users, 1)
	s.Equal("boss", users[0].UID)

	w, _ = s.call(http.MethodGet, "/all-users?role=root", nil, "boss")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestAdminVerifyAndRole() {
	s.seedUser("boss", domain.RoleAdmin)

	w, env := s.call(http.MethodPut, "/all-users/newbie", gin.H{"verified": true}, "boss")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var u domain.User
	s.Require().NoError(json.Unmarshal(env.Data, &u))
	s.True(u.Verified)
	s.Equal(int64(1), s.count(&domain.User{}, "uid = ? AND verified = ?", "newbie", true))

	w, _ = s.call(http.MethodPatch, "/all-users/newbie/role", gin.H{"role": "admin"}, "boss")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(int64(1), s.count(&domain.User{}, "uid = ? AND role = ?", "newbie", domain.RoleAdmin))

	w, _ = s.call(http.MethodPatch, "/all-users/nobody/role", gin.H{"role": "admin"}, "boss")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestWishlistJoin() {
	s.seedProduct("p1", "bob")

	w, _ := s.call(http.MethodPost, "/wishlist", gin.H{"authorID": "alice", "productID": "p1"}, "bob")
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.call(http.MethodPost, "/wishlist", gin.H{"authorID": "alice", "productID": "p1"}, "alice")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w, _ = s.call(http.MethodPost, "/wishlist", gin.H{"authorID": "alice", "productID": "p1"}, "alice")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(int64(1), s.count(&domain.WishlistEntry{}, ""))

	w, env := s.call(http.MethodGet, "/wishlist/alice", nil, "alice")
	s.Require().Equal(http.StatusOK, w.Code)
	var items []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &items))
	s.Require().Len(items, 1)
	product, ok := items[0]["product"].(map[string]any)
	s.Require().True(ok)
	s.Equal("Bike p1", product["name"])
}

func (s *APISuite) TestOrderCascade() {
	s.seedProduct("p1", "bob")
	s.Require().NoError(s.db.Create(&domain.WishlistEntry{ID: "w1", AuthorID: "alice", ProductID: "p1"}).Error)
	s.Require().NoError(s.db.Create(&domain.WishlistEntry{ID: "w2", AuthorID: "carol", ProductID: "p1"}).Error)

	order := gin.H{"productID": "p1", "customer_id": "alice", "price": 120, "transactionId": "tx_1"}
	w, _ := s.call(http.MethodPost, "/orders", order, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	s.Equal(int64(1), s.count(&domain.Order{}, "product_id = ? AND customer_id = ?", "p1", "alice"))
	s.Equal(int64(1), s.count(&domain.Product{}, "id = ? AND sell = ?", "p1", true))
	s.Equal(int64(0), s.count(&domain.WishlistEntry{}, "author_id = ?", "alice"))
	s.Equal(int64(1), s.count(&domain.WishlistEntry{}, "author_id = ?", "carol"))

	w, env := s.call(http.MethodPost, "/orders", gin.H{"productID": "p1", "customer_id": "carol"}, "")
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(409, env.Code)

	w, _ = s.call(http.MethodPost, "/orders", gin.H{"productID": "nope", "customer_id": "carol"}, "")
	s.Equal(http.StatusNotFound, w.Code)

	w, env = s.call(http.MethodGet, "/my-orders/alice", nil, "alice")
	s.Require().Equal(http.StatusOK, w.Code)
	var orders []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &orders))
	s.Require().Len(orders, 1)
	s.Contains(orders[0], "product")
}

func (s *APISuite) TestOrderPartialFailure() {
	s.seedProduct("p1", "bob")
	s.r = s.engine(brokenMarkSold{repo.NewProductRepo(s.db)})

	w, env := s.call(http.MethodPost, "/orders", gin.H{"productID": "p1", "customer_id": "alice"}, "")
	s.Require().Equal(http.StatusInternalServerError, w.Code)
	var data struct {
		OrderID    string `json:"orderId"`
		FailedStep string `json:"failedStep"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	s.NotEmpty(data.OrderID)
	s.Equal(service.StepMarkSold, data.FailedStep)
	// 订单不回滚
	s.Equal(int64(1), s.count(&domain.Order{}, "id = ?", data.OrderID))
}

func (s *APISuite) TestOrderRequireAuth() {
	s.cfg.Orders.RequireAuth = true
	s.r = s.engine(nil)
	s.seedProduct("p1", "bob")

	w, _ := s.call(http.MethodPost, "/orders", gin.H{"productID": "p1", "customer_id": "alice"}, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	w, _ = s.call(http.MethodPost, "/orders", gin.H{"productID": "p1", "customer_id": "alice"}, "carol")
	s.Equal(http.StatusForbidden, w.Code)
	w, _ = s.call(http.MethodPost, "/orders", gin.H{"productID": "p1", "customer_id": "alice"}, "alice")
	s.Equal(http.StatusOK, w.Code)
}

func (s *APISuite) TestCategoryUniqueUnderRace() {
	const n = 6
	tok := s.token("alice")
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/category", bytes.NewReader([]byte(`{"value":"Phones"}`)))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+tok)
			w := httptest.NewRecorder()
			s.r.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	ok, conflict := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	s.Equal(1, ok)
	s.Equal(n-1, conflict)
	s.Equal(int64(1), s.count(&domain.Category{}, ""))
}

func (s *APISuite) TestBrandAdminOnly() {
	s.seedUser("boss", domain.RoleAdmin)
	w, _ := s.call(http.MethodPost, "/brand", gin.H{"value": "Apple"}, "alice")
	s.Equal(http.StatusForbidden, w.Code)

	w, env := s.call(http.MethodPost, "/brand", gin.H{"value": "Apple"}, "boss")
	s.Require().Equal(http.StatusOK, w.Code)
	var b domain.Brand
	s.Require().NoError(json.Unmarshal(env.Data, &b))

	w, _ = s.call(http.MethodGet, "/brand", nil, "")
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.call(http.MethodDelete, "/brand/"+b.ID, nil, "boss")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(0), s.count(&domain.Brand{}, ""))
}

func (s *APISuite) TestDeleteUser() {
	s.seedUser("boss", domain.RoleAdmin)
	s.seedUser("victim", domain.RoleMember)

	w, _ := s.call(http.MethodDelete, "/user/victim", nil, "boss")
	s.Equal(http.StatusForbidden, w.Code)
	w, _ = s.call(http.MethodDelete, "/user/victim", nil, "boss", mdw.HeaderAdminID, "someone")
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(int64(1), s.count(&domain.User{}, "uid = ?", "victim"))

	s.idp.err = errors.New("firebase down")
	w, env := s.call(http.MethodDelete, "/user/victim", nil, "boss", mdw.HeaderAdminID, "boss")
	s.Equal(http.StatusBadGateway, w.Code)
	s.Equal(502, env.Code)
	s.Equal(int64(1), s.count(&domain.User{}, "uid = ?", "victim"))

	s.idp.err = nil
	w, _ = s.call(http.MethodDelete, "/user/victim", nil, "boss", mdw.HeaderAdminID, "boss")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(int64(0), s.count(&domain.User{}, "uid = ?", "victim"))
	s.Equal([]string{"victim"}, s.idp.deleted)
}

func (s *APISuite) TestPaymentIntent() {
	w, env := s.call(http.MethodPost, "/create-payment-intent", gin.H{"price": 9.99}, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &out))
	s.Equal("pi_test_secret", out.ClientSecret)
	s.Equal(int64(999), s.gw.amount)
	s.Equal("usd", s.gw.currency)

	w, _ = s.call(http.MethodPost, "/create-payment-intent", gin.H{"price": -1}, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestHealthAndMetrics() {
	w, _ := s.call(http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.call(http.MethodGet, "/metrics", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "http_requests_total")
}
