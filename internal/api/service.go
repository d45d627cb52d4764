package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "notevault.v1.NoteVault"

const (
	MethodPing               = "Ping"
	MethodRegister           = "Register"
	MethodLogin              = "Login"
	MethodVerifyLogin        = "VerifyLogin"
	MethodBeginPasskeyLogin  = "BeginPasskeyLogin"
	MethodFinishPasskeyLogin = "FinishPasskeyLogin"
	MethodChangePassword     = "ChangePassword"
	MethodDeleteAccount      = "DeleteAccount"
	MethodSetupTwoFactor     = "SetupTwoFactor"
	MethodEnableTwoFactor    = "EnableTwoFactor"
	MethodDisableTwoFactor   = "DisableTwoFactor"
	MethodViewBackupCodes    = "ViewBackupCodes"
	MethodRegisterPasskey    = "RegisterPasskey"
	MethodSaveItem           = "SaveItem"
	MethodUpdateItem         = "UpdateItem"
	MethodGetItem            = "GetItem"
	MethodListItems          = "ListItems"
	MethodDeleteItem         = "DeleteItem"
	MethodListActivity       = "ListActivity"
	MethodExportItems        = "ExportItems"
)

// FullMethod returns the gRPC path of method, e.g. "/notevault.v1.NoteVault/Login".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// NoteVaultServer is implemented by the server transport.
type NoteVaultServer interface {
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	VerifyLogin(context.Context, *VerifyLoginRequest) (*LoginResponse, error)
	BeginPasskeyLogin(context.Context, *emptypb.Empty) (*BeginPasskeyLoginResponse, error)
	FinishPasskeyLogin(context.Context, *FinishPasskeyLoginRequest) (*LoginResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*emptypb.Empty, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*emptypb.Empty, error)
	SetupTwoFactor(context.Context, *emptypb.Empty) (*SetupTwoFactorResponse, error)
	EnableTwoFactor(context.Context, *EnableTwoFactorRequest) (*emptypb.Empty, error)
	DisableTwoFactor(context.Context, *DisableTwoFactorRequest) (*emptypb.Empty, error)
	ViewBackupCodes(context.Context, *ViewBackupCodesRequest) (*BackupCodesResponse, error)
	RegisterPasskey(context.Context, *RegisterPasskeyRequest) (*emptypb.Empty, error)
	SaveItem(context.Context, *SaveItemRequest) (*ItemResponse, error)
	UpdateItem(context.Context, *UpdateItemRequest) (*ItemResponse, error)
	GetItem(context.Context, *ItemRequest) (*ItemResponse, error)
	ListItems(context.Context, *emptypb.Empty) (*ListItemsResponse, error)
	DeleteItem(context.Context, *ItemRequest) (*emptypb.Empty, error)
	ListActivity(context.Context, *ListActivityRequest) (*ListActivityResponse, error)
	ExportItems(context.Context, *emptypb.Empty) (*ExportItemsResponse, error)
}

// UnimplementedNoteVaultServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedNoteVaultServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedNoteVaultServer) Ping(context.Context, *emptypb.Empty) (*PingResponse, error) {
	return nil, unimplemented(MethodPing)
}
func (UnimplementedNoteVaultServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, unimplemented(MethodRegister)
}
func (UnimplementedNoteVaultServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedNoteVaultServer) VerifyLogin(context.Context, *VerifyLoginRequest) (*LoginResponse, error) {
	return nil, unimplemented(MethodVerifyLogin)
}
func (UnimplementedNoteVaultServer) BeginPasskeyLogin(context.Context, *emptypb.Empty) (*BeginPasskeyLoginResponse, error) {
	return nil, unimplemented(MethodBeginPasskeyLogin)
}
func (UnimplementedNoteVaultServer) FinishPasskeyLogin(context.Context, *FinishPasskeyLoginRequest) (*LoginResponse, error) {
	return nil, unimplemented(MethodFinishPasskeyLogin)
}
func (UnimplementedNoteVaultServer) ChangePassword(context.Context, *ChangePasswordRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodChangePassword)
}
func (UnimplementedNoteVaultServer) DeleteAccount(context.Context, *DeleteAccountRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodDeleteAccount)
}
func (UnimplementedNoteVaultServer) SetupTwoFactor(context.Context, *emptypb.Empty) (*SetupTwoFactorResponse, error) {
	return nil, unimplemented(MethodSetupTwoFactor)
}
func (UnimplementedNoteVaultServer) EnableTwoFactor(context.Context, *EnableTwoFactorRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodEnableTwoFactor)
}
func (UnimplementedNoteVaultServer) DisableTwoFactor(context.Context, *DisableTwoFactorRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodDisableTwoFactor)
}
func (UnimplementedNoteVaultServer) ViewBackupCodes(context.Context, *ViewBackupCodesRequest) (*BackupCodesResponse, error) {
	return nil, unimplemented(MethodViewBackupCodes)
}
func (UnimplementedNoteVaultServer) RegisterPasskey(context.Context, *RegisterPasskeyRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodRegisterPasskey)
}
func (UnimplementedNoteVaultServer) SaveItem(context.Context, *SaveItemRequest) (*ItemResponse, error) {
	return nil, unimplemented(MethodSaveItem)
}
func (UnimplementedNoteVaultServer) UpdateItem(context.Context, *UpdateItemRequest) (*ItemResponse, error) {
	return nil, unimplemented(MethodUpdateItem)
}
func (UnimplementedNoteVaultServer) GetItem(context.Context, *ItemRequest) (*ItemResponse, error) {
	return nil, unimplemented(MethodGetItem)
}
func (UnimplementedNoteVaultServer) ListItems(context.Context, *emptypb.Empty) (*ListItemsResponse, error) {
	return nil, unimplemented(MethodListItems)
}
func (UnimplementedNoteVaultServer) DeleteItem(context.Context, *ItemRequest) (*emptypb.Empty, error) {
	return nil, unimplemented(MethodDeleteItem)
}
func (UnimplementedNoteVaultServer) ListActivity(context.Context, *ListActivityRequest) (*ListActivityResponse, error) {
	return nil, unimplemented(MethodListActivity)
}
func (UnimplementedNoteVaultServer) ExportItems(context.Context, *emptypb.Empty) (*ExportItemsResponse, error) {
	return nil, unimplemented(MethodExportItems)
}

// unary builds the method descriptor for one request/response call.
func unary[Req, Resp any](method string, call func(NoteVaultServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(NoteVaultServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(NoteVaultServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for NoteVault.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NoteVaultServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, NoteVaultServer.Ping),
		unary(MethodRegister, NoteVaultServer.Register),
		unary(MethodLogin, NoteVaultServer.Login),
		unary(MethodVerifyLogin, NoteVaultServer.VerifyLogin),
		unary(MethodBeginPasskeyLogin, NoteVaultServer.BeginPasskeyLogin),
		unary(MethodFinishPasskeyLogin, NoteVaultServer.FinishPasskeyLogin),
		unary(MethodChangePassword, NoteVaultServer.ChangePassword),
		unary(MethodDeleteAccount, NoteVaultServer.DeleteAccount),
		unary(MethodSetupTwoFactor, NoteVaultServer.SetupTwoFactor),
		unary(MethodEnableTwoFactor, NoteVaultServer.EnableTwoFactor),
		unary(MethodDisableTwoFactor, NoteVaultServer.DisableTwoFactor),
		unary(MethodViewBackupCodes, NoteVaultServer.ViewBackupCodes),
		unary(MethodRegisterPasskey, NoteVaultServer.RegisterPasskey),
		unary(MethodSaveItem, NoteVaultServer.SaveItem),
		unary(MethodUpdateItem, NoteVaultServer.UpdateItem),
		unary(MethodGetItem, NoteVaultServer.GetItem),
		unary(MethodListItems, NoteVaultServer.ListItems),
		unary(MethodDeleteItem, NoteVaultServer.DeleteItem),
		unary(MethodListActivity, NoteVaultServer.ListActivity),
		unary(MethodExportItems, NoteVaultServer.ExportItems),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "notevault/v1/notevault.proto",
}

// RegisterNoteVaultServer attaches srv to s.
func RegisterNoteVaultServer(s grpc.ServiceRegistrar, srv NoteVaultServer) {
	s.RegisterService(&ServiceDesc, srv)
}
