package repository

import "gorm.io/gorm/clause"

// Row lock for read-modify-write paths. The sqlite dialect drops it; there
// the immediate transaction already holds the write lock.
var lockForUpdate = clause.Locking{Strength: "UPDATE"}
