package tide

import (
	"bufio"
	"context"
	"io"
)

// Lines returns a subscription yielding each line read from r, without the
// trailing newline. It ends at EOF or on a read error.
//
// A read that is already blocked cannot be interrupted; once ctx is done
// the line it eventually returns is discarded and the subscription ends.
func Lines(r io.Reader) Sub[string] {
	return func(ctx context.Context) <-chan string {
		out := make(chan string)
		go func() {
			defer close(out)
			scanner := bufio.NewScanner(r)
			for scanner.Scan() {
				select {
				case out <- scanner.Text():
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}
}
