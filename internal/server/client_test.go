package server

import (
	"testing"

	"courier-chat/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestClient_FrameContext_Carries_User_And_Request_Id(t *testing.T) {
	req := require.New(t)
	c := NewClient(nil, nil, "u1", uuid.NewString(), logger.NewNop())

	ctx := c.frameContext()

	userID, ok := ctx.Value(logger.UserIdKey).(string)
	req.True(ok)
	req.Equal("u1", userID)

	requestID, ok := ctx.Value(logger.RequestIdKey).(string)
	req.True(ok)
	req.NoError(uuid.Validate(requestID))
}

func TestClient_FrameContext_Is_Fresh_Per_Frame(t *testing.T) {
	req := require.New(t)
	c := NewClient(nil, nil, "u1", uuid.NewString(), logger.NewNop())

	first, _ := c.frameContext().Value(logger.RequestIdKey).(string)
	second, _ := c.frameContext().Value(logger.RequestIdKey).(string)
	req.NotEqual(first, second)
}
