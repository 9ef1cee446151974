package post

// Summary is a feed post as the matching core consumes it.
type Summary struct {
	Content string
	Tags    []string
}
