package build

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageRenderPages   StageName = "render_pages"
	StageRenderIndex   StageName = "render_index"
	StageCopyAssets    StageName = "copy_assets"
	StageVerifyLinks   StageName = "verify_links"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}
