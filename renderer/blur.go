package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rain/blur"
)

//go:embed shaders/blur.fs
var blurShaderSource string

// BlurPass runs a two-pass Gaussian blur over a render texture.
// Weights come from blur.Kernel so the GPU and CPU paths agree.
type BlurPass struct {
	shader        rl.Shader
	resolutionLoc int32
	directionLoc  int32
	tapsLoc       int32
	weightsLoc    int32

	scratch rl.RenderTexture2D
	width   int32
	height  int32

	radius float64
	taps   int
}

// NewBlurPass loads the shader and a scratch target of the given size.
// Must be called after the raylib window is created.
func NewBlurPass(width, height int32, radius float64) *BlurPass {
	b := &BlurPass{
		shader:  rl.LoadShaderFromMemory("", blurShaderSource),
		scratch: rl.LoadRenderTexture(width, height),
		width:   width,
		height:  height,
	}
	b.resolutionLoc = rl.GetShaderLocation(b.shader, "resolution")
	b.directionLoc = rl.GetShaderLocation(b.shader, "direction")
	b.tapsLoc = rl.GetShaderLocation(b.shader, "taps")
	b.weightsLoc = rl.GetShaderLocation(b.shader, "weights")

	rl.SetTextureFilter(b.scratch.Texture, rl.FilterBilinear)
	rl.SetShaderValue(b.shader, b.resolutionLoc, []float32{float32(width), float32(height)}, rl.ShaderUniformVec2)
	b.SetRadius(radius)
	return b
}

// SetRadius uploads the kernel for a new radius.
func (b *BlurPass) SetRadius(radius float64) {
	w := blur.Kernel(radius)
	b.radius = radius
	b.taps = len(w)
	rl.SetShaderValue(b.shader, b.tapsLoc, []float32{float32(len(w))}, rl.ShaderUniformFloat)
	rl.SetShaderValueV(b.shader, b.weightsLoc, blur.Weights32(w), rl.ShaderUniformFloat, blur.MaxTaps)
}

// Radius returns the current blur radius.
func (b *BlurPass) Radius() float64 {
	return b.radius
}

// Draw blurs src horizontally into the scratch target, then vertically onto
// the current draw target at the origin.
func (b *BlurPass) Draw(src rl.RenderTexture2D) {
	rl.BeginTextureMode(b.scratch)
	rl.ClearBackground(rl.Blank)
	rl.BeginShaderMode(b.shader)
	rl.SetShaderValue(b.shader, b.directionLoc, []float32{1, 0}, rl.ShaderUniformVec2)
	drawTarget(src, b.width, b.height, rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()

	rl.BeginShaderMode(b.shader)
	rl.SetShaderValue(b.shader, b.directionLoc, []float32{0, 1}, rl.ShaderUniformVec2)
	drawTarget(b.scratch, b.width, b.height, rl.White)
	rl.EndShaderMode()
}

// Unload frees GPU resources.
func (b *BlurPass) Unload() {
	rl.UnloadShader(b.shader)
	rl.UnloadRenderTexture(b.scratch)
}

// drawTarget draws a render texture at the origin. Render textures are stored
// bottom-up, so the source rect has a negative height.
func drawTarget(t rl.RenderTexture2D, w, h int32, tint rl.Color) {
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(w), Height: -float32(h)}
	rl.DrawTextureRec(t.Texture, src, rl.Vector2{}, tint)
}
