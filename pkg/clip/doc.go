// ABOUTME: Clip layer package documentation
// ABOUTME: Describes contexts, loaders, handles and completion callbacks
// Package clip loads and controls audio clips through a native engine.
//
// A Context wraps one native session. Clips are loaded with a Loader and
// controlled through a Handle. Both Context and Handle are reference
// counted: Clone adds a reference, Close drops one. The native clip is
// unloaded when its last Handle is closed, and the native session is closed
// when its last Context and every clip and device list derived from it are
// closed.
//
// A clip can carry caller state of any type. The on-end callback receives a
// pointer to that state and runs on an engine goroutine; SetState,
// ModifyState and State take the same lock, so the callback and the
// controlling goroutine never see a torn value.
//
// Example:
//
//	ctx, err := clip.Open(clip.Config{Engine: miniaudio.New(miniaudio.Config{})})
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
//	h, err := clip.NewLoader[int]("clips/song.ogg", ctx).
//	    OnEnd(func(plays *int) { *plays++ }).
//	    Load()
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//	h.Play()
package clip
