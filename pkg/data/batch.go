package data

// Sample represents a single data point.
type Sample struct {
	X []float64
	Y float64
}

// Batch represents a collection of data points.
type Batch struct {
	X [][]float64
	Y []float64
}

// Samples streams the rows of X and y in the given order through out and
// closes it when done. Close the returned done chan to stop early.
func Samples(X [][]float64, y []float64, order []int, out chan<- Sample) (done chan struct{}) {
	done = make(chan struct{})
	go func() {
		defer close(out)
		for _, i := range order {
			select {
			case <-done:
				return
			case out <- Sample{X: X[i], Y: y[i]}:
			}
		}
	}()
	return done
}

// Batcher reads from a Sample channel and emits mini-batches of batchSize via
// out. The last batch may be smaller. Close the returned done chan to stop
// early.
func Batcher(in <-chan Sample, batchSize int, out chan<- Batch) (done chan struct{}) {
	done = make(chan struct{})

	go func() {
		defer close(out)

		var X [][]float64
		var Y []float64

		for {
			select {
			case <-done:
				return

			case s, ok := <-in:
				if !ok {
					// flush the partial batch
					if len(Y) > 0 {
						out <- Batch{X: X, Y: Y}
					}
					return
				}

				X = append(X, s.X)
				Y = append(Y, s.Y)

				if len(Y) == batchSize {
					out <- Batch{X: X, Y: Y}
					X = nil
					Y = nil
				}
			}
		}
	}()

	return done
}
