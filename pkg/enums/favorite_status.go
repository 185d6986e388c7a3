package enums

// FavoriteStatus reports the outcome of a favorite toggle.
type FavoriteStatus string

const (
	FavoriteStatusAdded   FavoriteStatus = "added"
	FavoriteStatusRemoved FavoriteStatus = "removed"
)

// String implements fmt.Stringer.
func (s FavoriteStatus) String() string {
	return string(s)
}
