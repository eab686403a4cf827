package database

import (
	"gorm.io/gorm"

	"taskman/internal/utils"
)

// Named task filter scopes. A zero id means "no filter on this
// dimension" and yields a pass-through scope, so callers can compose
// scopes unconditionally; the applied ones intersect (logical AND).

// ByCreator filters tasks created by the given user.
func ByCreator(id uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == 0 {
			return db
		}
		return db.Where("tasks.creator_id = ?", id)
	}
}

// ByStatus filters tasks with the given status.
func ByStatus(id uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == 0 {
			return db
		}
		return db.Where("tasks.task_status_id = ?", id)
	}
}

// ByAssignee filters tasks assigned to the given user.
func ByAssignee(id uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == 0 {
			return db
		}
		return db.Where("tasks.assigned_to_id = ?", id)
	}
}

// ByTags filters tasks linked to any of the given tags.
func ByTags(ids []uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db
		}
		return db.Where("EXISTS (SELECT 1 FROM task_tags WHERE task_tags.task_id = tasks.id AND task_tags.tag_id IN ?)", ids)
	}
}

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
