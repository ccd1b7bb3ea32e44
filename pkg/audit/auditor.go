package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/audit45/pkg/backend"
	"github.com/user/audit45/pkg/dataset"
	"github.com/user/audit45/pkg/findings"
)

// Auditor runs one audit invocation end to end: prompt the backend, extract
// and normalize whatever comes back, and fall back to the offline baseline
// when the backend fails outright. The caller always receives a well-formed
// object — degraded runs differ only in the content of their findings.
type Auditor struct {
	gen    backend.Generator
	logger *zap.Logger
}

func New(gen backend.Generator, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{gen: gen, logger: logger}
}

// Result is the outcome of one invocation.
type Result struct {
	// Object is the normalized output object, or a legacy-schema object
	// passed through untouched.
	Object map[string]interface{}
	// Findings is the typed projection of Object; empty for legacy
	// passthrough objects.
	Findings []findings.Finding
	// UsedBaseline marks runs that fell back to the offline rules.
	UsedBaseline bool
}

// Run performs one audit over the selected checklist rows and evidence
// digest.
func (a *Auditor) Run(ctx context.Context, cl *dataset.Checklist, evidenceDigest, clauseHint string) *Result {
	system := BuildSystemPrompt(cl, DefaultISOVersion)
	user := BuildUserPrompt(evidenceDigest, clauseHint)

	raw, err := a.gen.Generate(ctx, system, user, clauseHint)
	if err != nil {
		a.logger.Warn("backend failed, falling back to offline baseline",
			zap.String("backend", a.gen.Name()),
			zap.Error(err),
		)
		rep := findings.OfflineBaseline(cl.ContextRows(5), evidenceDigest, clauseHint)
		// Normalization is idempotent; re-applying keeps both paths on the
		// same contract.
		obj := findings.Normalize(rep.ToObject())
		fs, _ := findings.FromObject(obj)
		return &Result{Object: obj, Findings: fs, UsedBaseline: true}
	}

	obj, ok := findings.Extract(raw)
	if !ok {
		obj = findings.WrapFreeText(raw)
	}
	obj = findings.Normalize(obj)
	fs, _ := findings.FromObject(obj)
	return &Result{Object: obj, Findings: fs}
}
