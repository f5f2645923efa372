package program

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a validation finding blocks
// compilation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks compilation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// Validation codes.
const (
	CodeInvalidDepth   = "InvalidDepth"
	CodeGeometry       = "Geometry"
	CodeSpindleSpeed   = "SpindleSpeed"
	CodeFeedRate       = "FeedRate"
	CodeRapidCollision = "RapidCollision"
	CodeToolCollision  = "ToolCollision"
	CodeNoTool         = "NoTool"
	CodeMaterial       = "Material"
)

// ValidationError describes a single validation finding. Op is the index
// of the operation, or -1 for program-level findings.
type ValidationError struct {
	Op       int
	Code     string
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Op < 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] op %d: %s: %s", e.Severity, e.Op+1, e.Code, e.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory) from
// all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// MaterialChecker reports whether a stock material is known. It is
// satisfied by (*blackbook.Book).Lookup wrapped in a func.
type MaterialChecker func(name string) bool

// Validator holds machine defaults used when the program header leaves a
// limit unset.
type Validator struct {
	MaxRPM  float64
	MaxFeed float64
	// SafeHeight is the lowest allowed retract plane, in program units.
	SafeHeight float64
	// KnownMaterial, when set, enables the stock material advisory.
	KnownMaterial MaterialChecker
}

// Default machine limits.
const (
	DefaultMaxRPM  = 10000
	DefaultMaxFeed = 5000
)

// NewValidator returns a Validator with default machine limits.
func NewValidator() *Validator {
	return &Validator{MaxRPM: DefaultMaxRPM, MaxFeed: DefaultMaxFeed}
}

// Validate runs Tier 1 structural checks and returns every finding. An
// empty slice means the program is structurally valid.
func Validate(p *Program) []ValidationError {
	var errs []ValidationError
	for i, op := range p.Operations {
		errs = append(errs, validateStructure(i, op)...)
	}
	return errs
}

// ValidateAll runs all tiers (structural, machine limits, advisories) and
// separates errors from warnings. It never mutates the program.
func (v *Validator) ValidateAll(p *Program) ValidationResult {
	var all []ValidationError
	all = append(all, Validate(p)...)
	all = append(all, v.validateLimits(p)...)
	all = append(all, v.validateAdvisories(p)...)

	var result ValidationResult
	for _, e := range all {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

func errAt(op int, code, format string, args ...any) ValidationError {
	return ValidationError{Op: op, Code: code, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnAt(op int, code, format string, args ...any) ValidationError {
	return ValidationError{Op: op, Code: code, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

// ---------------------------------------------------------------------------
// Tier 1: structure
// ---------------------------------------------------------------------------

func validateStructure(i int, op Operation) []ValidationError {
	var errs []ValidationError
	switch o := op.(type) {
	case ToolChange:
		if o.Number < 0 {
			errs = append(errs, errAt(i, CodeGeometry, "tool number %d is negative", o.Number))
		}
		if o.Data != nil && !positive(o.Data.Diameter) {
			errs = append(errs, errAt(i, CodeGeometry, "tool diameter must be positive, got %v", o.Data.Diameter))
		}
	case Drill:
		if !o.Thru && !positive(o.Depth) {
			errs = append(errs, errAt(i, CodeInvalidDepth, "drill depth must be positive, got %v", o.Depth))
		}
		if o.Peck < 0 {
			errs = append(errs, errAt(i, CodeInvalidDepth, "peck must not be negative, got %v", o.Peck))
		}
		if len(o.Positions) == 0 {
			errs = append(errs, errAt(i, CodeGeometry, "drill has no positions"))
		}
	case Pocket:
		if !positive(o.Depth) {
			errs = append(errs, errAt(i, CodeInvalidDepth, "pocket depth must be positive, got %v", o.Depth))
		}
		if o.Stepdown < 0 {
			errs = append(errs, errAt(i, CodeInvalidDepth, "stepdown must not be negative, got %v", o.Stepdown))
		}
		if o.Stepover < 0 || o.Stepover > 1 {
			errs = append(errs, errAt(i, CodeGeometry, "stepover must be a fraction of tool diameter in (0, 1], got %v", o.Stepover))
		}
		errs = append(errs, validateGeometry(i, o.Geometry)...)
	case Profile:
		if !positive(o.Depth) {
			errs = append(errs, errAt(i, CodeInvalidDepth, "profile depth must be positive, got %v", o.Depth))
		}
		if o.StockToLeave < 0 {
			errs = append(errs, errAt(i, CodeGeometry, "stock to leave must not be negative, got %v", o.StockToLeave))
		}
		errs = append(errs, validateGeometry(i, o.Geometry)...)
	case Face:
		if !positive(o.Depth) {
			errs = append(errs, errAt(i, CodeInvalidDepth, "face depth must be positive, got %v", o.Depth))
		}
		errs = append(errs, validateGeometry(i, o.Bounds)...)
	case Tap:
		if !positive(o.Depth) {
			errs = append(errs, errAt(i, CodeInvalidDepth, "tap depth must be positive, got %v", o.Depth))
		}
		if !positive(o.Pitch) {
			errs = append(errs, errAt(i, CodeGeometry, "thread pitch must be positive, got %v", o.Pitch))
		}
		if len(o.Positions) == 0 {
			errs = append(errs, errAt(i, CodeGeometry, "tap has no positions"))
		}
	case Cut:
		errs = append(errs, validateSlab(i, "cut", o.Sweep, o.Depth, o.Height)...)
	case Clear:
		errs = append(errs, validateSlab(i, "clear", o.Sweep, o.Depth, o.Height)...)
	case PartDef:
		if o.Stock != nil && (!positive(o.Stock.X) || !positive(o.Stock.Y) || !positive(o.Stock.Z)) {
			errs = append(errs, errAt(i, CodeGeometry, "stock size must be positive, got %vx%vx%v", o.Stock.X, o.Stock.Y, o.Stock.Z))
		}
	case Patterned:
		errs = append(errs, validatePattern(i, o.Pattern)...)
		errs = append(errs, validateStructure(i, o.Base)...)
	}
	return errs
}

func validateSlab(i int, what string, sweep, depth, height float64) []ValidationError {
	var errs []ValidationError
	if !positive(sweep) || !positive(depth) {
		errs = append(errs, errAt(i, CodeGeometry, "%s sweep and depth must be positive, got %v and %v", what, sweep, depth))
	}
	if !positive(height) {
		errs = append(errs, errAt(i, CodeInvalidDepth, "%s height must be positive, got %v", what, height))
	}
	return errs
}

func validateGeometry(i int, g Geometry) []ValidationError {
	switch s := g.(type) {
	case Rect:
		if !positive(s.Width) || !positive(s.Height) {
			return []ValidationError{errAt(i, CodeGeometry, "rectangle must have positive size, got %vx%v", s.Width, s.Height)}
		}
		if s.CornerRadius < 0 || s.CornerRadius*2 > math.Min(s.Width, s.Height) {
			return []ValidationError{errAt(i, CodeGeometry, "corner radius %v does not fit %vx%v", s.CornerRadius, s.Width, s.Height)}
		}
	case Circle:
		if !positive(s.Diameter) {
			return []ValidationError{errAt(i, CodeGeometry, "circle diameter must be positive, got %v", s.Diameter)}
		}
	case Polygon:
		if s.Sides < 3 || !positive(s.Circumradius) {
			return []ValidationError{errAt(i, CodeGeometry, "polygon needs at least 3 sides and a positive radius")}
		}
	case Path:
		if len(s.Points) < 2 {
			return []ValidationError{errAt(i, CodeGeometry, "path needs at least 2 points")}
		}
	case nil:
		return []ValidationError{errAt(i, CodeGeometry, "missing geometry")}
	}
	return nil
}

func validatePattern(i int, p Pattern) []ValidationError {
	switch s := p.(type) {
	case Grid:
		if s.Cols < 1 || s.Rows < 1 {
			return []ValidationError{errAt(i, CodeGeometry, "grid needs at least one row and column, got %dx%d", s.Cols, s.Rows)}
		}
	case BoltCircle:
		if s.Count < 1 || !positive(s.Diameter) {
			return []ValidationError{errAt(i, CodeGeometry, "bolt circle needs a positive count and diameter")}
		}
	case LinePattern:
		if s.Count < 1 {
			return []ValidationError{errAt(i, CodeGeometry, "line pattern count must be at least 1, got %d", s.Count)}
		}
	case ArcPattern:
		if s.Count < 1 {
			return []ValidationError{errAt(i, CodeGeometry, "arc pattern count must be at least 1, got %d", s.Count)}
		}
	case nil:
		return []ValidationError{errAt(i, CodeGeometry, "missing pattern")}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tier 2: machine limits
// ---------------------------------------------------------------------------

func (v *Validator) limits(p *Program) (maxRPM, maxFeed, safe float64) {
	maxRPM, maxFeed = v.MaxRPM, v.MaxFeed
	if p.Header.Safety.MaxRPM > 0 {
		maxRPM = p.Header.Safety.MaxRPM
	}
	if p.Header.Safety.MaxFeed > 0 {
		maxFeed = p.Header.Safety.MaxFeed
	}
	return maxRPM, maxFeed, v.SafeHeight
}

func (v *Validator) validateLimits(p *Program) []ValidationError {
	maxRPM, maxFeed, safe := v.limits(p)
	var errs []ValidationError
	var toolLen float64

	checkFeed := func(i int, feed float64) {
		if maxFeed > 0 && feed > maxFeed {
			errs = append(errs, errAt(i, CodeFeedRate, "feed %v exceeds maximum %v", feed, maxFeed))
		}
	}
	checkRetract := func(i int, r float64) {
		if r != 0 && r < safe {
			errs = append(errs, errAt(i, CodeRapidCollision, "retract %v is below safe height %v", r, safe))
		}
	}
	checkReach := func(i int, depth float64) {
		if toolLen > 0 && depth > toolLen {
			errs = append(errs, errAt(i, CodeToolCollision, "depth %v exceeds tool length %v", depth, toolLen))
		}
	}

	var walk func(i int, op Operation)
	walk = func(i int, op Operation) {
		switch o := op.(type) {
		case ToolChange:
			toolLen = 0
			if o.Data != nil {
				toolLen = o.Data.Length
			}
		case SpindleCommand:
			if o.Dir != Off && maxRPM > 0 && o.RPM > maxRPM {
				errs = append(errs, errAt(i, CodeSpindleSpeed, "spindle speed %v exceeds maximum %v", o.RPM, maxRPM))
			}
		case Drill:
			checkFeed(i, o.Feed)
			checkRetract(i, o.Retract)
			checkReach(i, o.Depth)
		case Pocket:
			checkFeed(i, o.Feed)
			checkFeed(i, o.PlungeFeed)
			checkReach(i, o.Depth)
		case Profile:
			checkFeed(i, o.Feed)
			checkFeed(i, o.PlungeFeed)
			checkReach(i, o.Depth)
		case Face:
			checkFeed(i, o.Feed)
		case Tap:
			checkRetract(i, o.Retract)
			checkReach(i, o.Depth)
		case Patterned:
			walk(i, o.Base)
		}
	}
	for i, op := range p.Operations {
		walk(i, op)
	}
	return errs
}

// ---------------------------------------------------------------------------
// Tier 3: advisories
// ---------------------------------------------------------------------------

func cuts(op Operation) bool {
	switch o := op.(type) {
	case Drill, Pocket, Profile, Face, Tap, Cut, Clear:
		return true
	case Patterned:
		return cuts(o.Base)
	}
	return false
}

func (v *Validator) validateAdvisories(p *Program) []ValidationError {
	var warns []ValidationError
	loaded := false
	for i, op := range p.Operations {
		switch o := op.(type) {
		case ToolChange:
			loaded = true
		case PartDef:
			if o.Stock != nil && v.KnownMaterial != nil && o.Stock.Material != "" && !v.KnownMaterial(o.Stock.Material) {
				warns = append(warns, warnAt(i, CodeMaterial, "stock material %q is not in the material table", o.Stock.Material))
			}
		}
		if cuts(op) && !loaded {
			warns = append(warns, warnAt(i, CodeNoTool, "%s before any tool change", Name(op)))
			loaded = true
		}
	}
	return warns
}
