package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ==================== 分页拉取 ====================

func TestClient_GetCustomers_Pagination(t *testing.T) {
	var requests []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.String())

		switch r.URL.Query().Get("page_info") {
		case "":
			// 第一页必须带 limit 参数
			if r.URL.Query().Get("limit") != "250" {
				t.Errorf("首页 limit = %s, want 250", r.URL.Query().Get("limit"))
			}
			w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page_info=p2>; rel="next"`, r.Host, r.URL.Path))
			fmt.Fprint(w, `{"customers":[{"id":1,"email":"a@x.com"},{"id":2,"email":"b@x.com"}]}`)
		case "p2":
			// 中间页同时带 previous 与 next，必须选中 next
			w.Header().Set("Link", fmt.Sprintf(
				`<http://%s%s?page_info=p1>; rel="previous", <http://%s%s?page_info=p3>; rel="next"`,
				r.Host, r.URL.Path, r.Host, r.URL.Path))
			fmt.Fprint(w, `{"customers":[{"id":3},{"id":4}]}`)
		case "p3":
			// 末页无 next
			w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page_info=p2>; rel="previous"`, r.Host, r.URL.Path))
			fmt.Fprint(w, `{"customers":[{"id":5}]}`)
		default:
			t.Errorf("未预期的 page_info: %s", r.URL.Query().Get("page_info"))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token")
	customers, err := client.GetCustomers(context.Background())
	if err != nil {
		t.Fatalf("拉取客户失败: %v", err)
	}

	if len(customers) != 5 {
		t.Fatalf("客户数 = %d, want 5", len(customers))
	}
	for i, want := range []int64{1, 2, 3, 4, 5} {
		if customers[i].ID != want {
			t.Errorf("customers[%d].ID = %d, want %d", i, customers[i].ID, want)
		}
	}
	if len(requests) != 3 {
		t.Errorf("请求次数 = %d, want 3", len(requests))
	}
}

func TestClient_SendsAccessTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "secret-token" {
			t.Errorf("X-Shopify-Access-Token = %s, want secret-token", got)
		}
		fmt.Fprint(w, `{"products":[]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	if _, err := client.GetProducts(context.Background()); err != nil {
		t.Fatalf("拉取商品失败: %v", err)
	}
}

// ==================== 错误分类 ====================

func newStatusServer(status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, `{"errors":"boom"}`)
	}))
}

func TestClient_Unauthorized(t *testing.T) {
	srv := newStatusServer(401)
	defer srv.Close()

	client := NewClient(srv.URL, "bad-token")
	_, err := client.GetCustomers(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want *AuthError", err)
	}
}

func TestClient_PermissionDenied_NamesScope(t *testing.T) {
	srv := newStatusServer(403)
	defer srv.Close()

	client := NewClient(srv.URL, "limited-token")
	_, err := client.GetOrders(context.Background())

	var scopeErr *PermissionScopeError
	if !errors.As(err, &scopeErr) {
		t.Fatalf("err = %v, want *PermissionScopeError", err)
	}
	if scopeErr.Scope != "read_orders" {
		t.Errorf("缺失权限 = %s, want read_orders", scopeErr.Scope)
	}

	// 草稿单同样归到 read_orders
	_, err = client.GetDraftOrders(context.Background())
	if !errors.As(err, &scopeErr) || scopeErr.Scope != "read_orders" {
		t.Errorf("草稿单 403 应提示 read_orders, got %v", err)
	}
}

func TestClient_RateLimited_IsTransient(t *testing.T) {
	srv := newStatusServer(429)
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	_, err := client.GetProducts(context.Background())

	var transient *TransientFault
	if !errors.As(err, &transient) {
		t.Fatalf("err = %v, want *TransientFault", err)
	}
}

func TestClient_ServerError_IsUpstream(t *testing.T) {
	srv := newStatusServer(500)
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	_, err := client.GetCustomers(context.Background())

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if upstream.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", upstream.StatusCode)
	}
}

// ==================== Link 头解析 ====================

func TestNextPageURL(t *testing.T) {
	cases := []struct {
		name string
		link string
		want string
	}{
		{"无 Link 头", "", ""},
		{"只有 previous", `<https://x.myshopify.com/a?page_info=p1>; rel="previous"`, ""},
		{"只有 next", `<https://x.myshopify.com/a?page_info=p2>; rel="next"`, "https://x.myshopify.com/a?page_info=p2"},
		{
			"previous 与 next 并存",
			`<https://x.myshopify.com/a?page_info=p1>; rel="previous", <https://x.myshopify.com/a?page_info=p3>; rel="next"`,
			"https://x.myshopify.com/a?page_info=p3",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextPageURL(tc.link); got != tc.want {
				t.Errorf("nextPageURL(%q) = %q, want %q", tc.link, got, tc.want)
			}
		})
	}
}
