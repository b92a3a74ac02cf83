package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/middleware"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ==================== 业务错误 ====================

var (
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errors.New("该邮箱已注册")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// ==================== AuthService 认证服务 ====================

// AuthService 注册 / 登录 / 当前用户
type AuthService struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository, tenantRepo repository.TenantRepository) *AuthService {
	return &AuthService{userRepo: userRepo, tenantRepo: tenantRepo}
}

// Register 注册：一次建出租户和管理员用户
// 用户创建失败时回收已建的租户，避免留下无主租户
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	tenant := &model.Tenant{
		ID:                 uuid.NewString(),
		Name:               req.StoreName,
		ShopifyStoreURL:    req.ShopifyStoreURL,
		ShopifyAccessToken: req.ShopifyAccessToken,
		IsActive:           true,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("创建租户失败: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Role:     model.UserRoleAdmin,
		TenantID: tenant.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if delErr := s.tenantRepo.Delete(ctx, tenant.ID); delErr != nil {
			log.Printf("[AuthService] 回收租户 %s 失败: %v", tenant.ID, delErr)
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	return s.buildAuthResponse(user, tenant)
}

// Login 登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, fmt.Errorf("查询租户失败: %w", err)
	}

	return s.buildAuthResponse(user, tenant)
}

// Me 当前用户信息
func (s *AuthService) Me(ctx context.Context, userID string) (*dto.UserVO, *dto.TenantVO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询用户失败: %w", err)
	}
	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询租户失败: %w", err)
	}
	userVO := toUserVO(user)
	tenantVO := toTenantVO(tenant)
	return &userVO, &tenantVO, nil
}

func (s *AuthService) buildAuthResponse(user *model.User, tenant *model.Tenant) (*dto.AuthResponse, error) {
	token, err := middleware.GenerateAccessToken(user.ID, user.Email, user.TenantID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("生成 Token 失败: %w", err)
	}
	return &dto.AuthResponse{
		Token:  token,
		User:   toUserVO(user),
		Tenant: toTenantVO(tenant),
	}, nil
}

func toUserVO(user *model.User) dto.UserVO {
	return dto.UserVO{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		TenantID: user.TenantID,
	}
}

func toTenantVO(tenant *model.Tenant) dto.TenantVO {
	return dto.TenantVO{
		ID:              tenant.ID,
		Name:            tenant.Name,
		ShopifyStoreURL: tenant.ShopifyStoreURL,
		IsActive:        tenant.IsActive,
	}
}
