package service

import (
	"context"

	"github.com/wfunc/game-community/internal/models"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

type forumService struct {
	*base
}

// CreatePost 发帖，成功后合并到帖子列表
func (s *forumService) CreatePost(ctx context.Context, title, content, imageURL string) {
	token, ok := s.requireToken(ctx, "createPost")
	if !ok {
		return
	}

	post, err := s.backend.CreatePost(ctx, token, &models.PostInput{Title: title, Content: content, ImageURL: imageURL})
	if err != nil {
		s.fail("createPost", err)
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.PostSaved(current, *post)
	})
	s.done("createPost", zap.Int("post_id", post.ID))
}

// UpdatePost 更新帖子
func (s *forumService) UpdatePost(ctx context.Context, postID int, title, content, imageURL string) {
	token, ok := s.requireToken(ctx, "updatePost")
	if !ok {
		return
	}

	post, err := s.backend.UpdatePost(ctx, token, postID, &models.PostInput{Title: title, Content: content, ImageURL: imageURL})
	if err != nil {
		s.fail("updatePost", err, zap.Int("post_id", postID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.PostSaved(current, *post)
	})
	s.done("updatePost", zap.Int("post_id", postID))
}

// DeletePost 删除帖子
func (s *forumService) DeletePost(ctx context.Context, postID int) {
	token, ok := s.requireToken(ctx, "deletePost")
	if !ok {
		return
	}

	if err := s.backend.DeletePost(ctx, token, postID); err != nil {
		s.fail("deletePost", err, zap.Int("post_id", postID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.PostDeleted(current, postID)
	})
	s.done("deletePost", zap.Int("post_id", postID))
}

// GetPostByID 当前帖子
func (s *forumService) GetPostByID(ctx context.Context, postID int) {
	post, err := s.backend.Post(ctx, postID)
	if err != nil {
		s.fail("getPostById", err, zap.Int("post_id", postID))
		return
	}
	s.store.Set(store.PostLoaded(post))
	s.done("getPostById", zap.Int("post_id", postID))
}

// GetAllPosts 全部帖子
func (s *forumService) GetAllPosts(ctx context.Context) {
	posts, err := s.backend.Posts(ctx)
	if err != nil {
		s.fail("getAllPost", err)
		return
	}
	s.store.Set(store.PostsLoaded(posts))
	s.done("getAllPost", zap.Int("count", len(posts)))
}

// CreateComment 发表评论
func (s *forumService) CreateComment(ctx context.Context, postID int, content string) {
	token, ok := s.requireToken(ctx, "createComment")
	if !ok {
		return
	}

	comment, err := s.backend.CreateComment(ctx, token, postID, &models.CommentInput{Content: content})
	if err != nil {
		s.fail("createComment", err, zap.Int("post_id", postID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.CommentSaved(current, *comment)
	})
	s.done("createComment", zap.Int("comment_id", comment.ID))
}

// UpdateComment 更新评论
func (s *forumService) UpdateComment(ctx context.Context, commentID int, content string) {
	token, ok := s.requireToken(ctx, "updateComment")
	if !ok {
		return
	}

	comment, err := s.backend.UpdateComment(ctx, token, commentID, &models.CommentInput{Content: content})
	if err != nil {
		s.fail("updateComment", err, zap.Int("comment_id", commentID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.CommentSaved(current, *comment)
	})
	s.done("updateComment", zap.Int("comment_id", commentID))
}

// DeleteComment 删除评论
func (s *forumService) DeleteComment(ctx context.Context, commentID int) {
	token, ok := s.requireToken(ctx, "deleteComment")
	if !ok {
		return
	}

	if err := s.backend.DeleteComment(ctx, token, commentID); err != nil {
		s.fail("deleteComment", err, zap.Int("comment_id", commentID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.CommentDeleted(current, commentID)
	})
	s.done("deleteComment", zap.Int("comment_id", commentID))
}

// GetCommentByID 当前评论
func (s *forumService) GetCommentByID(ctx context.Context, commentID int) {
	comment, err := s.backend.Comment(ctx, commentID)
	if err != nil {
		s.fail("getCommentById", err, zap.Int("comment_id", commentID))
		return
	}
	s.store.Set(store.CommentLoaded(comment))
	s.done("getCommentById", zap.Int("comment_id", commentID))
}

// GetAllComments 全部评论
func (s *forumService) GetAllComments(ctx context.Context) {
	comments, err := s.backend.Comments(ctx)
	if err != nil {
		s.fail("getAllComments", err)
		return
	}
	s.store.Set(store.CommentsLoaded(comments))
	s.done("getAllComments", zap.Int("count", len(comments)))
}

// GetCommentsForPost 帖子下的评论
func (s *forumService) GetCommentsForPost(ctx context.Context, postID int) {
	comments, err := s.backend.CommentsForPost(ctx, postID)
	if err != nil {
		s.fail("getCommentsForPost", err, zap.Int("post_id", postID))
		return
	}
	s.store.Set(store.CommentsLoaded(comments))
	s.done("getCommentsForPost", zap.Int("post_id", postID), zap.Int("count", len(comments)))
}
