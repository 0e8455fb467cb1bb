package ui

// pagerMsg contains the result of showing a post in the pager
type pagerMsg struct {
	postID int
	err    error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
