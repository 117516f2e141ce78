package optim

// SGD is a stochastic gradient descent optimizer with optional L2 weight
// decay.
type SGD struct {
	LearningRate float64
	L2           float64
}

func NewSGD(lr, l2 float64) *SGD { return &SGD{LearningRate: lr, L2: l2} }

// Step updates weights in place: w -= lr * (g + l2*w).
func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * (grads[i] + o.L2*weights[i])
	}
}
