package database

import (
	"errors"

	"github.com/avoronov/devlink/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) CreatePost(post *models.Post) error {
	return d.db.Create(post).Error
}

func (d *Database) GetPost(id string) (*models.Post, error) {
	var post models.Post
	err := d.db.
		Preload("Likes", mostRecentFirst).
		Preload("Comments", mostRecentFirst).
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (d *Database) GetAllPosts() ([]models.Post, error) {
	var posts []models.Post
	err := d.db.
		Preload("Likes", mostRecentFirst).
		Preload("Comments", mostRecentFirst).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (d *Database) DeletePost(id string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Like{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
}

// LikePost inserts the like only if the user has not liked the post yet,
// relying on the (post_id, user_id) unique index instead of a separate
// read-check. Zero affected rows means the like already existed.
func (d *Database) LikePost(like *models.Like) error {
	res := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyLiked
	}
	return nil
}

// UnlikePost deletes by (post, user), not by position in the likes list.
func (d *Database) UnlikePost(postID, userID string) error {
	res := d.db.Delete(&models.Like{}, "post_id = ? AND user_id = ?", postID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotLiked
	}
	return nil
}

func (d *Database) GetPostLikes(postID string) ([]models.Like, error) {
	var likes []models.Like
	err := d.db.
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

func (d *Database) AddComment(comment *models.Comment) error {
	return d.db.Create(comment).Error
}

func (d *Database) GetComment(postID, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := d.db.First(&comment, "id = ? AND post_id = ?", commentID, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (d *Database) DeleteComment(postID, commentID string) error {
	res := d.db.Delete(&models.Comment{}, "id = ? AND post_id = ?", commentID, postID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Database) GetPostComments(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := d.db.
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
