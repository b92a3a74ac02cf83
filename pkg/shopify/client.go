package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultAPIVersion = "2024-01"

// nextLinkPattern 从 Link 响应头提取下一页地址
// 形如: <https://xx.myshopify.com/admin/api/2024-01/orders.json?page_info=yyy>; rel="next"
var nextLinkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// ==================== Client Shopify Admin API 客户端 ====================

// Client 按租户构建，持有该租户的店铺地址与访问令牌
type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient 创建客户端
// storeURL 允许带或不带协议前缀；显式 http:// 保留原样（本地调试/测试用）
func NewClient(storeURL, accessToken string) *Client {
	scheme := "https"
	host := strings.TrimSuffix(storeURL, "/")
	if strings.HasPrefix(host, "http://") {
		scheme = "http"
		host = strings.TrimPrefix(host, "http://")
	}
	host = strings.TrimPrefix(host, "https://")

	httpClient := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("X-Shopify-Access-Token", accessToken).
		SetHeader("Content-Type", "application/json")

	return &Client{
		baseURL: fmt.Sprintf("%s://%s/admin/api/%s", scheme, host, defaultAPIVersion),
		http:    httpClient,
	}
}

// ==================== 分页拉取 ====================

// fetchCollection 按游标分页拉取整个集合
// 每页响应体按资源复数名取数组，Link 头无 next 时结束
// 任何一页失败都会中止整个集合的拉取，由调用方决定是否重试
func (c *Client) fetchCollection(ctx context.Context, endpoint, resourceKey string, params map[string]string) ([]json.RawMessage, error) {
	var all []json.RawMessage

	pageURL := c.baseURL + "/" + endpoint
	firstPage := true

	for pageURL != "" {
		req := c.http.R().SetContext(ctx)
		if firstPage {
			// 后续页的游标已包含在 next 链接里，不再附加参数
			req.SetQueryParams(params)
		}

		resp, err := req.Get(pageURL)
		if err != nil {
			return nil, &TransientFault{Err: err}
		}
		if err := classifyStatus(resp.StatusCode(), resp.String(), resourceKey); err != nil {
			return nil, err
		}

		var body map[string]json.RawMessage
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: "响应解析失败: " + err.Error()}
		}

		if raw, ok := body[resourceKey]; ok {
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: "资源数组解析失败: " + err.Error()}
			}
			all = append(all, items...)
		}

		pageURL = nextPageURL(resp.Header().Get("Link"))
		firstPage = false
	}

	return all, nil
}

// nextPageURL 解析 Link 头中 rel="next" 的地址，没有则返回空串
func nextPageURL(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}
	for _, part := range strings.Split(linkHeader, ",") {
		if m := nextLinkPattern.FindStringSubmatch(part); m != nil {
			return m[1]
		}
	}
	return ""
}

// classifyStatus 将非 2xx 状态码映射为类型化错误
func classifyStatus(status int, body, resourceKey string) error {
	switch {
	case status < 400:
		return nil
	case status == 401:
		return &AuthError{}
	case status == 403:
		return &PermissionScopeError{Scope: scopeForResource(resourceKey)}
	case status == 429:
		return &TransientFault{Err: fmt.Errorf("HTTP 429 请求过于频繁")}
	default:
		return &UpstreamError{StatusCode: status, Body: body}
	}
}

// scopeForResource 资源对应的 Shopify 权限名，403 时用于提示用户
func scopeForResource(resourceKey string) string {
	switch resourceKey {
	case "customers":
		return "read_customers"
	case "orders", "draft_orders":
		return "read_orders"
	case "products":
		return "read_products"
	default:
		return "read_" + resourceKey
	}
}

// ==================== 按资源类型拉取 ====================

// GetCustomers 拉取全部客户
func (c *Client) GetCustomers(ctx context.Context) ([]RawCustomer, error) {
	raws, err := c.fetchCollection(ctx, "customers.json", "customers", map[string]string{"limit": "250"})
	if err != nil {
		return nil, err
	}
	customers := make([]RawCustomer, 0, len(raws))
	for _, raw := range raws {
		var cu RawCustomer
		if err := json.Unmarshal(raw, &cu); err != nil {
			return nil, &UpstreamError{StatusCode: 200, Body: "customer 记录解析失败: " + err.Error()}
		}
		customers = append(customers, cu)
	}
	return customers, nil
}

// GetOrders 拉取全部订单（含所有状态）
func (c *Client) GetOrders(ctx context.Context) ([]RawOrder, error) {
	raws, err := c.fetchCollection(ctx, "orders.json", "orders", map[string]string{"limit": "250", "status": "any"})
	if err != nil {
		return nil, err
	}
	orders := make([]RawOrder, 0, len(raws))
	for _, raw := range raws {
		var o RawOrder
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, &UpstreamError{StatusCode: 200, Body: "order 记录解析失败: " + err.Error()}
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// GetDraftOrders 拉取全部草稿订单
func (c *Client) GetDraftOrders(ctx context.Context) ([]RawDraftOrder, error) {
	raws, err := c.fetchCollection(ctx, "draft_orders.json", "draft_orders", map[string]string{"limit": "250"})
	if err != nil {
		return nil, err
	}
	drafts := make([]RawDraftOrder, 0, len(raws))
	for _, raw := range raws {
		var d RawDraftOrder
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, &UpstreamError{StatusCode: 200, Body: "draft_order 记录解析失败: " + err.Error()}
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// GetProducts 拉取全部商品
func (c *Client) GetProducts(ctx context.Context) ([]RawProduct, error) {
	raws, err := c.fetchCollection(ctx, "products.json", "products", map[string]string{"limit": "250"})
	if err != nil {
		return nil, err
	}
	products := make([]RawProduct, 0, len(raws))
	for _, raw := range raws {
		var p RawProduct
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &UpstreamError{StatusCode: 200, Body: "product 记录解析失败: " + err.Error()}
		}
		products = append(products, p)
	}
	return products, nil
}
