package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// NoteVaultClient is the typed client for NoteVaultServer. Every call uses
// the JSON codec.
type NoteVaultClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	VerifyLogin(ctx context.Context, in *VerifyLoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	BeginPasskeyLogin(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*BeginPasskeyLoginResponse, error)
	FinishPasskeyLogin(ctx context.Context, in *FinishPasskeyLoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SetupTwoFactor(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*SetupTwoFactorResponse, error)
	EnableTwoFactor(ctx context.Context, in *EnableTwoFactorRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	DisableTwoFactor(ctx context.Context, in *DisableTwoFactorRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ViewBackupCodes(ctx context.Context, in *ViewBackupCodesRequest, opts ...grpc.CallOption) (*BackupCodesResponse, error)
	RegisterPasskey(ctx context.Context, in *RegisterPasskeyRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SaveItem(ctx context.Context, in *SaveItemRequest, opts ...grpc.CallOption) (*ItemResponse, error)
	UpdateItem(ctx context.Context, in *UpdateItemRequest, opts ...grpc.CallOption) (*ItemResponse, error)
	GetItem(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*ItemResponse, error)
	ListItems(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListItemsResponse, error)
	DeleteItem(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ListActivity(ctx context.Context, in *ListActivityRequest, opts ...grpc.CallOption) (*ListActivityResponse, error)
	ExportItems(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ExportItemsResponse, error)
}

type noteVaultClient struct {
	cc grpc.ClientConnInterface
}

func NewNoteVaultClient(cc grpc.ClientConnInterface) NoteVaultClient {
	return &noteVaultClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteVaultClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *noteVaultClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *noteVaultClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *noteVaultClient) VerifyLogin(ctx context.Context, in *VerifyLoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodVerifyLogin, in, opts)
}

func (c *noteVaultClient) BeginPasskeyLogin(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*BeginPasskeyLoginResponse, error) {
	return invoke[BeginPasskeyLoginResponse](ctx, c.cc, MethodBeginPasskeyLogin, in, opts)
}

func (c *noteVaultClient) FinishPasskeyLogin(ctx context.Context, in *FinishPasskeyLoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodFinishPasskeyLogin, in, opts)
}

func (c *noteVaultClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodChangePassword, in, opts)
}

func (c *noteVaultClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodDeleteAccount, in, opts)
}

func (c *noteVaultClient) SetupTwoFactor(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*SetupTwoFactorResponse, error) {
	return invoke[SetupTwoFactorResponse](ctx, c.cc, MethodSetupTwoFactor, in, opts)
}

func (c *noteVaultClient) EnableTwoFactor(ctx context.Context, in *EnableTwoFactorRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodEnableTwoFactor, in, opts)
}

func (c *noteVaultClient) DisableTwoFactor(ctx context.Context, in *DisableTwoFactorRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodDisableTwoFactor, in, opts)
}

func (c *noteVaultClient) ViewBackupCodes(ctx context.Context, in *ViewBackupCodesRequest, opts ...grpc.CallOption) (*BackupCodesResponse, error) {
	return invoke[BackupCodesResponse](ctx, c.cc, MethodViewBackupCodes, in, opts)
}

func (c *noteVaultClient) RegisterPasskey(ctx context.Context, in *RegisterPasskeyRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodRegisterPasskey, in, opts)
}

func (c *noteVaultClient) SaveItem(ctx context.Context, in *SaveItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, MethodSaveItem, in, opts)
}

func (c *noteVaultClient) UpdateItem(ctx context.Context, in *UpdateItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, MethodUpdateItem, in, opts)
}

func (c *noteVaultClient) GetItem(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, MethodGetItem, in, opts)
}

func (c *noteVaultClient) ListItems(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c.cc, MethodListItems, in, opts)
}

func (c *noteVaultClient) DeleteItem(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodDeleteItem, in, opts)
}

func (c *noteVaultClient) ListActivity(ctx context.Context, in *ListActivityRequest, opts ...grpc.CallOption) (*ListActivityResponse, error) {
	return invoke[ListActivityResponse](ctx, c.cc, MethodListActivity, in, opts)
}

func (c *noteVaultClient) ExportItems(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ExportItemsResponse, error) {
	return invoke[ExportItemsResponse](ctx, c.cc, MethodExportItems, in, opts)
}
