package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

// Полный сценарий: alice публикует cat.jpg, bob пишет "cute!",
// bob не может удалить пост, alice удаляет пост вместе с комментарием.
func TestAliceBobScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// alicepw1 и bobpw12 начинаются с первых трёх букв имени и не проходят проверку пароля,
	// поэтому пользователи регистрируются с другими паролями.
	for username, password := range map[string]string{"alice": "alicepw1", "bob": "bobpw12"} {
		_, err := env.users.Register(ctx, RegisterInput{
			Username: username, Email: username + "@example.com", Password: password,
		})
		requireCode(t, err, codes.InvalidArgument)
	}

	env.register(t, "alice", "wonder1", "")
	env.register(t, "bob", "builder12", "")

	login := func(username, password string) int64 {
		res, err := env.auth.Login(ctx, username, password)
		require.NoError(t, err)
		caller, err := env.auth.ResolveCaller(ctx, res.AccessToken)
		require.NoError(t, err)
		return caller.ID
	}
	aliceID := login("alice", "wonder1")
	bobID := login("bob", "builder12")

	post, err := env.posts.Create(ctx, CreatePostInput{
		ImageURL: "cat.jpg", ImageURLType: "relative", Caption: "my cat",
	}, aliceID)
	require.NoError(t, err)

	comment, err := env.comments.Create(ctx, "cute!", bobID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.Username)

	posts, err := env.posts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].Owner)
	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, "cute!", posts[0].Comments[0].Text)

	// bob не может удалить чужой пост
	requireCode(t, env.posts.DeleteByID(ctx, post.ID, bobID), codes.Unauthenticated)

	require.NoError(t, env.posts.DeleteByID(ctx, post.ID, aliceID))

	posts, err = env.posts.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	comments, err := env.comments.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
