package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// requireCode проверяет gRPC код ошибки сервиса
func requireCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected grpc status error, got %v", err)
	require.Equal(t, want, st.Code(), "message: %s", st.Message())
}

func TestInternalErrorHidesCause(t *testing.T) {
	err := internalError("Test", errStoreDown)

	requireCode(t, err, codes.Internal)
	require.NotContains(t, err.Error(), errStoreDown.Error())
}
