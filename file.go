package tide

import (
	"context"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/zoobzio/capitan"
)

// WatchFile returns a subscription that yields the contents of the file at
// path: once when it starts and again after every write or create. The
// subscription ends if the file cannot be watched, when the watcher fails
// permanently, or when ctx is done. Unreadable intermediate states are
// skipped.
func WatchFile(path string) Sub[[]byte] {
	return func(ctx context.Context) <-chan []byte {
		out := make(chan []byte)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			capitan.Emit(context.WithoutCancel(ctx), WatchFailed,
				KeyPath.Field(path),
				KeyError.Field(err.Error()),
			)
			close(out)
			return out
		}
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			capitan.Emit(context.WithoutCancel(ctx), WatchFailed,
				KeyPath.Field(path),
				KeyError.Field(err.Error()),
			)
			close(out)
			return out
		}

		go func() {
			defer close(out)
			defer watcher.Close()

			if data, err := os.ReadFile(path); err == nil {
				select {
				case out <- data:
				case <-ctx.Done():
					return
				}
			}

			for {
				select {
				case <-ctx.Done():
					return

				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					data, err := os.ReadFile(path)
					if err != nil {
						continue
					}
					select {
					case out <- data:
					case <-ctx.Done():
						return
					}

				case _, ok := <-watcher.Errors:
					if !ok {
						return
					}
				}
			}
		}()

		return out
	}
}
