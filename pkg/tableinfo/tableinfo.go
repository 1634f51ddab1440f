package tableinfo

const (
	UsersTableName = "users"

	UserIDColumn        = "id"
	UserEmailColumn     = "email"
	UserFirstnameColumn = "firstname"
	UserLastnameColumn  = "lastname"
	UserCreatedAtColumn = "created_at"
	UserUpdatedAtColumn = "updated_at"
)

const (
	PostsTableName = "posts"

	PostIDColumn        = "id"
	PostTitleColumn     = "title"
	PostContentColumn   = "content"
	PostPublishedColumn = "published"
	PostAuthorIDColumn  = "author_id"
	PostCreatedAtColumn = "created_at"
	PostUpdatedAtColumn = "updated_at"
)

const (
	LikesTableName = "likes"

	LikeIDColumn        = "id"
	LikeUserIDColumn    = "user_id"
	LikePostIDColumn    = "post_id"
	LikeCreatedAtColumn = "created_at"
)

// PostSortColumns maps API sort fields onto posts columns.
// Anything missing here is not sortable.
var PostSortColumns = map[string]string{
	"id":        PostIDColumn,
	"createdAt": PostCreatedAtColumn,
	"updatedAt": PostUpdatedAtColumn,
	"published": PostPublishedColumn,
	"title":     PostTitleColumn,
	"content":   PostContentColumn,
}

func PostColumns() []string {
	return []string{
		PostIDColumn,
		PostTitleColumn,
		PostContentColumn,
		PostPublishedColumn,
		PostAuthorIDColumn,
		PostCreatedAtColumn,
		PostUpdatedAtColumn,
	}
}

func UserColumns() []string {
	return []string{
		UserIDColumn,
		UserEmailColumn,
		UserFirstnameColumn,
		UserLastnameColumn,
		UserCreatedAtColumn,
		UserUpdatedAtColumn,
	}
}

func LikeColumns() []string {
	return []string{
		LikeIDColumn,
		LikeUserIDColumn,
		LikePostIDColumn,
		LikeCreatedAtColumn,
	}
}
