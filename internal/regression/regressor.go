package regression

import (
	"fmt"
	"math/rand"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/jjohare/Anny-body-fitter/internal/body"
	"github.com/jjohare/Anny-body-fitter/internal/registration"
	"github.com/jjohare/Anny-body-fitter/pkg/geometry"
)

// Result is the output of one fit: the final pose, phenotype, and the last
// reconstructed vertex set. It is produced once per call and owned by the
// caller.
type Result struct {
	Pose      []geometry.RigidTransform
	Phenotype body.PhenotypeVector
	Vertices  []r3.Vector
}

// Options control a single fit call.
type Options struct {
	// InitialPhenotypes overrides the 0.5 default per label. Unknown names
	// are an error.
	InitialPhenotypes map[string]float64
	// ExcludedPhenotypes are held fixed at their initial value: their
	// Jacobian columns are zeroed before the solve.
	ExcludedPhenotypes []string
	// OptimizePhenotypes enables the Jacobian/solve half of each iteration.
	// When false only the pose is registered.
	OptimizePhenotypes bool
	// MaxIterations overrides the configured budget when positive.
	MaxIterations int
	// LocalChanges overrides individual detail-shape scalars, which are then
	// held fixed through the fit. Unknown names are an error.
	LocalChanges map[string]float64
}

// Regressor runs the iterative fitting loop: per-joint rigid registration,
// global alignment folded into the root joint, and a regularized
// finite-difference solve for the phenotype update, repeated for a fixed
// iteration budget. A poor fit never raises; the caller judges quality by
// reconstruction error.
type Regressor struct {
	model     body.Model
	partition *body.Partition
	cfg       Config

	layout      *body.Layout
	localLayout *body.Layout
	root        int

	sample   []int
	inSample []bool
	lambda   []float64
}

// New builds a Regressor for the given model. The vertex partition and the
// seeded subsample are derived once here and shared, read-only, by every
// subsequent fit.
func New(model body.Model, cfg Config) (*Regressor, error) {
	cfg.normalize()
	spec := model.Spec()
	if spec.VertexCount <= 0 {
		return nil, fmt.Errorf("model declares no vertices")
	}

	r := &Regressor{
		model:       model,
		partition:   body.NewPartition(spec),
		cfg:         cfg,
		layout:      spec.PhenotypeLayout(),
		localLayout: spec.LocalChangeLayout(),
		root:        spec.RootJoint(),
	}

	n := cfg.SampleSize
	if n > spec.VertexCount {
		n = spec.VertexCount
	}
	perm := rand.New(rand.NewSource(cfg.SampleSeed)).Perm(spec.VertexCount)
	r.sample = append([]int(nil), perm[:n]...)
	r.inSample = make([]bool, spec.VertexCount)
	for _, v := range r.sample {
		r.inSample[v] = true
	}

	r.lambda = make([]float64, r.layout.Len())
	for i, name := range r.layout.Names() {
		r.lambda[i] = cfg.Regularization
		if override, ok := cfg.RegularizationFor[name]; ok && override > 0 {
			r.lambda[i] = override
		}
	}
	return r, nil
}

// Model returns the model the regressor was built against.
func (r *Regressor) Model() body.Model { return r.model }

// Config returns the effective configuration after defaulting.
func (r *Regressor) Config() Config { return r.cfg }

// Fit fits every target in the batch independently and returns one result
// per target, in order.
func (r *Regressor) Fit(targets [][]r3.Vector, opts Options) ([]Result, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	results := make([]Result, len(targets))
	for i, target := range targets {
		res, err := r.FitOne(target, opts)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		results[i] = res
	}
	return results, nil
}

// FitOne fits a single target vertex set. This is the unbatched form; Fit
// wraps it for batches.
func (r *Regressor) FitOne(target []r3.Vector, opts Options) (Result, error) {
	spec := r.model.Spec()
	if len(target) != spec.VertexCount {
		return Result{}, fmt.Errorf("%w: got %d, want %d", ErrVertexCountMismatch, len(target), spec.VertexCount)
	}

	phen := body.NewPhenotypeVector(r.layout)
	for name, v := range opts.InitialPhenotypes {
		if err := phen.Set(name, v); err != nil {
			return Result{}, err
		}
	}
	local := body.NewLocalChangeVector(r.localLayout)
	for name, v := range opts.LocalChanges {
		if err := local.Set(name, v); err != nil {
			return Result{}, err
		}
	}
	excluded := make([]bool, r.layout.Len())
	for _, name := range opts.ExcludedPhenotypes {
		i, err := r.layout.Resolve(name)
		if err != nil {
			return Result{}, err
		}
		excluded[i] = true
	}

	iters := r.cfg.MaxIterations
	if opts.MaxIterations > 0 {
		iters = opts.MaxIterations
	}

	pose := geometry.IdentityPose(spec.JointCount)
	verts, _ := r.model.Forward(pose, phen, local)

	for iter := 0; iter < iters; iter++ {
		// Per-joint rigid registration over the sampled portion of each
		// joint's patch.
		for j := 0; j < spec.JointCount; j++ {
			t := r.registerJoint(j, verts, target)
			pose[j] = t.Compose(pose[j])
		}

		// One whole-mesh alignment of the re-evaluated reconstruction,
		// folded into the root joint only. Refreshing first keeps the global
		// correction from double-counting what the per-joint pass already
		// moved.
		verts, _ = r.model.Forward(pose, phen, local)
		global := registration.AlignGlobal(verts, target)
		pose[r.root] = global.Compose(pose[r.root])

		verts, _ = r.model.Forward(pose, phen, local)

		if opts.OptimizePhenotypes {
			jac := estimateJacobian(r.model, pose, phen, local, r.sample, verts, r.cfg.Epsilon, r.cfg.Workers)
			zeroExcludedColumns(jac, excluded)
			residual := sampleResidual(verts, target, r.sample)
			delta := solveUpdate(jac, residual, r.lambda)
			for i := range delta {
				if excluded[i] {
					continue
				}
				phen.SetAt(i, phen.At(i)+sanitize(delta[i]))
			}
			verts, _ = r.model.Forward(pose, phen, local)
		}
	}

	return Result{Pose: pose, Phenotype: phen, Vertices: verts}, nil
}

// registerJoint aligns the sampled part of joint j's vertex patch from the
// current reconstruction onto the target.
func (r *Regressor) registerJoint(j int, verts, target []r3.Vector) geometry.RigidTransform {
	indices, weights := r.partition.Joint(j)
	ref := make([]r3.Vector, 0, len(indices))
	tar := make([]r3.Vector, 0, len(indices))
	w := make([]float64, 0, len(indices))
	for k, v := range indices {
		if !r.inSample[v] {
			continue
		}
		ref = append(ref, verts[v])
		tar = append(tar, target[v])
		w = append(w, weights[k])
	}
	return registration.RegisterPatch(ref, tar, w)
}

// SampleError returns the mean distance between reconstruction and target
// over the seeded subsample, the quality signal used to compare fits.
func (r *Regressor) SampleError(verts, target []r3.Vector) float64 {
	if len(r.sample) == 0 {
		return 0
	}
	var total float64
	for _, v := range r.sample {
		total += verts[v].Sub(target[v]).Norm()
	}
	return total / float64(len(r.sample))
}

func zeroExcludedColumns(jac *mat.Dense, excluded []bool) {
	rows, _ := jac.Dims()
	for col, skip := range excluded {
		if !skip {
			continue
		}
		for i := 0; i < rows; i++ {
			jac.Set(i, col, 0)
		}
	}
}
