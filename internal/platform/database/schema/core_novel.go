package schema

// CoreNovelTable represents the 'core.novel' table
type CoreNovelTable struct {
	Table          string
	ID             string
	OwnerID        string
	Title          string
	Slug           string
	Status         string
	Description    string
	CoverRef       string
	ViewCount      string
	FavouriteCount string
	CreatedAt      string
	UpdatedAt      string
}

// CoreNovel is the schema definition for core.novel
var CoreNovel = CoreNovelTable{
	Table:          "core.novel",
	ID:             "id",
	OwnerID:        "ownerid",
	Title:          "title",
	Slug:           "slug",
	Status:         "status",
	Description:    "description",
	CoverRef:       "coverref",
	ViewCount:      "viewcount",
	FavouriteCount: "favouritecount",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

func (t CoreNovelTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Slug, t.Status, t.Description,
		t.CoverRef, t.ViewCount, t.FavouriteCount, t.CreatedAt, t.UpdatedAt,
	}
}
