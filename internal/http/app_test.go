package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"maisonneuve/internal/http/handlers"
	applog "maisonneuve/internal/log"
	"maisonneuve/internal/repos"
	"maisonneuve/internal/services"
	"maisonneuve/internal/storage"
)

// newTestApp wires the full route table the way main does, minus the
// rate limiters that would interfere with rapid test requests.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Carts: repos.NewCartRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	deps := handlers.NewDeps(db, storage.NewMemoryStore(), authSvc)

	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/search", deps.SearchHandler.Search)
	app.Get("/product/:id", deps.ProductHandler.Detail)
	app.Get("/api/v1/availability", deps.StockHandler.Check)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/order/:id", deps.OrderHandler.View)
	app.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	app.Get("/account", handlers.RequireUser(authSvc), deps.AccountHandler.Page)

	app.Get("/wishlist", deps.WishlistHandler.List)
	app.Post("/wishlist", deps.WishlistHandler.Toggle)
	app.Post("/wishlist/delete", deps.WishlistHandler.Remove)

	app.Post("/reviews", handlers.RequireUser(authSvc), deps.ReviewHandler.Submit)

	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Post("/logout", authH.Logout)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Get("/orders/:id", deps.AdminHandler.OrderDetail)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/products", deps.AdminProductHandler.ListPage)
	admin.Get("/products/new", deps.AdminProductHandler.NewForm)
	admin.Post("/products", deps.AdminProductHandler.Create)
	admin.Get("/products/:id/edit", deps.AdminProductHandler.EditForm)
	admin.Post("/products/:id", deps.AdminProductHandler.Update)
	admin.Post("/products/:id/delete", deps.AdminProductHandler.Delete)
	admin.Post("/products/:id/images", deps.AdminProductHandler.UploadImage)
	admin.Post("/products/:id/images/delete", deps.AdminProductHandler.DeleteImage)
	admin.Get("/reviews", deps.AdminReviewHandler.Queue)
	admin.Post("/reviews/:id/status", deps.AdminReviewHandler.UpdateStatus)
	admin.Post("/reviews/:id/delete", deps.AdminReviewHandler.Delete)
	admin.Get("/users", deps.AdminHandler.UsersPage)
	admin.Post("/users/:id/delete", deps.AdminHandler.DeleteUser)

	return app, db
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// session bundles the cookies one simulated browser carries around.
type session struct {
	t    *testing.T
	app  *fiber.App
	sid  string
	csrf string
}

func newSession(t *testing.T, app *fiber.App) *session {
	t.Helper()
	s := &session{t: t, app: app}
	resp := s.get("/login")
	s.csrf = cookieValue(resp, "csrf_")
	if s.csrf == "" {
		t.Fatal("csrf token missing")
	}
	return s
}

func (s *session) do(req *http.Request) *http.Response {
	s.t.Helper()
	if s.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: s.sid})
	}
	if s.csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: s.csrf})
	}
	resp, err := s.app.Test(req)
	if err != nil {
		s.t.Fatal(err)
	}
	if v := cookieValue(resp, "sid"); v != "" {
		s.sid = v
	}
	if v := cookieValue(resp, "csrf_"); v != "" {
		s.csrf = v
	}
	return resp
}

func (s *session) get(path string) *http.Response {
	return s.do(httptest.NewRequest("GET", path, nil))
}

func (s *session) postForm(path string, form url.Values) *http.Response {
	s.t.Helper()
	form.Set("csrf", s.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *session) login(email string) {
	s.t.Helper()
	resp := s.postForm("/login", url.Values{"email": {email}, "password": {"Passw0rd!"}})
	if resp.StatusCode != http.StatusFound {
		s.t.Fatalf("login as %s failed: %d", email, resp.StatusCode)
	}
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
