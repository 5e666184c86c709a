package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSprop and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// With a non-zero WeightDecay and decoupled decay (AdamW), the parameter is
// first shrunk by lr * weight_decay, independently of the gradient.
//
// The timestep t is per parameter, kept in the parameter's state.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	config    AdamConfig
	decoupled bool
}

// AdamConfig holds configuration for Adam and AdamW.
type AdamConfig struct {
	LR          float32    // Learning rate (default: 0.001 when zero)
	Betas       [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps         float32    // Term for numerical stability (default: 1e-8)
	WeightDecay float32    // AdamW only: decoupled weight decay (default: 0.01)
}

func (c AdamConfig) withDefaults() AdamConfig {
	if c.LR == 0 {
		c.LR = 0.001
	}
	if c.Betas == [2]float32{} {
		c.Betas = [2]float32{0.9, 0.999}
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
	return c
}

// NewAdam creates a new Adam optimizer, filling unset fields with defaults.
func NewAdam(config AdamConfig) *Adam {
	config = config.withDefaults()
	config.WeightDecay = 0
	return &Adam{config: config}
}

// NewAdamW creates a new Adam optimizer with decoupled weight decay
// (Loshchilov & Hutter, 2019).
func NewAdamW(config AdamConfig) *Adam {
	if config.WeightDecay == 0 {
		config.WeightDecay = 0.01
	}
	return &Adam{config: config.withDefaults(), decoupled: true}
}

type adamState struct {
	m, v *tensor.Tensor
	t    int
}

// Name implements autodiff.Optimizer.
func (a *Adam) Name() string {
	if a.decoupled {
		return fmt.Sprintf("adamw(lr=%g, weight_decay=%g)", a.config.LR, a.config.WeightDecay)
	}
	return fmt.Sprintf("adam(lr=%g)", a.config.LR)
}

// Config returns the configuration, with defaults applied.
func (a *Adam) Config() AdamConfig { return a.config }

// NewState implements autodiff.Optimizer.
func (a *Adam) NewState(shape tensor.Shape) autodiff.OptimizerState {
	return &adamState{m: tensor.Zeros(shape), v: tensor.Zeros(shape)}
}

// Update implements autodiff.Optimizer.
func (a *Adam) Update(value *tensor.Tensor, state autodiff.OptimizerState, grad *tensor.Tensor) *tensor.Tensor {
	checkShapes("optim.Adam", value, grad)
	st := state.(*adamState)
	beta1, beta2 := a.config.Betas[0], a.config.Betas[1]
	st.t++

	// bias_correction = 1 - beta^t
	biasCorrection1 := float32(1.0 - math.Pow(float64(beta1), float64(st.t)))
	biasCorrection2 := float32(1.0 - math.Pow(float64(beta2), float64(st.t)))

	st.m = st.m.Scale(beta1).Add(grad.Scale(1 - beta1))
	st.v = st.v.Scale(beta2).Add(grad.Mul(grad).Scale(1 - beta2))

	mHat := st.m.Scale(1 / biasCorrection1)
	vHat := st.v.Scale(1 / biasCorrection2)
	step := mHat.Div(vHat.Sqrt().AddScalar(a.config.Eps)).Scale(a.config.LR)

	if a.decoupled {
		value = value.Scale(1 - a.config.LR*a.config.WeightDecay)
	}
	return value.Sub(step)
}
