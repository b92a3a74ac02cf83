package service

import (
	"context"
	"errors"
	"testing"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/middleware"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), repository.NewTenantRepository(db))
	ctx := context.Background()

	req := &dto.RegisterRequest{
		Email:              "owner@example.com",
		Password:           "secret123",
		Name:               "店主",
		StoreName:          "测试店",
		ShopifyStoreURL:    "test.myshopify.com",
		ShopifyAccessToken: "shpat_xxx",
	}

	resp, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if resp.Token == "" {
		t.Error("注册应返回 Token")
	}
	if resp.User.Role != model.UserRoleAdmin {
		t.Errorf("首个用户角色 = %s, want admin", resp.User.Role)
	}
	if resp.Tenant.ID == "" || resp.User.TenantID != resp.Tenant.ID {
		t.Errorf("用户与租户未关联: user.tenant=%s tenant=%s", resp.User.TenantID, resp.Tenant.ID)
	}

	// Token 里的租户 id 必须可解析
	claims, err := middleware.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.TenantID != resp.Tenant.ID {
		t.Errorf("Token 租户 = %s, want %s", claims.TenantID, resp.Tenant.ID)
	}

	// 登录
	loginResp, err := svc.Login(ctx, &dto.LoginRequest{Email: "owner@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if loginResp.User.ID != resp.User.ID {
		t.Errorf("登录用户 = %s, want %s", loginResp.User.ID, resp.User.ID)
	}

	// 密码错误
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "owner@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}

	// 重复注册
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}
