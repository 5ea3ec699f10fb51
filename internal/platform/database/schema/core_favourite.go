package schema

// CoreFavouriteTable represents the 'core.favourite' table
type CoreFavouriteTable struct {
	Table     string
	UserID    string
	NovelID   string
	CreatedAt string
}

// CoreFavourite is the schema definition for core.favourite
var CoreFavourite = CoreFavouriteTable{
	Table:     "core.favourite",
	UserID:    "userid",
	NovelID:   "novelid",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t CoreFavouriteTable) Columns() []string {
	return []string{t.UserID, t.NovelID, t.CreatedAt}
}
