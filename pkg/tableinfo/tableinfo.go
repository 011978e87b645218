package tableinfo

const (
	CollectionsTableName = "collections"

	CollectionNameColumn      = "name"
	CollectionBodyColumn      = "body"
	CollectionUpdatedAtColumn = "updated_at"
)
