package scene

import (
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const skyboxScale = 500

// skyboxPaths are tried in order so the skybox is found whether run from repo root or cmd/globe.
var skyboxPaths = []string{
	"assets/skybox/skybox.png",
	"assets/skybox/skybox.jpg",
	"../../assets/skybox/skybox.png",
	"../../assets/skybox/skybox.jpg",
}

// equirectAspectMin/Max: width/height ratio for equirectangular panorama (typically 2:1).
const (
	equirectAspectMin = 1.8
	equirectAspectMax = 2.2
)

// skybox is an optional backdrop image drawn behind the globe, either a cubemap or an
// equirectangular panorama. GPU resources are created on first draw.
type skybox struct {
	tex       rl.Texture2D
	mesh      rl.Mesh
	mtl       rl.Material
	loaded    bool
	pending   bool
	path      string
	equirect  bool
	camPosLoc int32
	texLoc    int32
}

// findSkybox returns a skybox for the first image found on skyboxPaths, or nil.
func findSkybox() *skybox {
	var path string
	for _, p := range skyboxPaths {
		cleaned := filepath.Clean(p)
		if _, err := os.Stat(cleaned); err == nil {
			path = cleaned
			break
		}
	}
	if path == "" {
		return nil
	}
	img := rl.LoadImage(path)
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil
	}
	aspect := float32(img.Width) / float32(img.Height)
	rl.UnloadImage(img)
	return &skybox{
		path:     path,
		pending:  true,
		equirect: aspect >= equirectAspectMin && aspect <= equirectAspectMax,
	}
}

// ensureLoaded runs on the first draw, after the window/GL context exists.
func (s *skybox) ensureLoaded() {
	if !s.pending {
		return
	}
	s.pending = false

	if !s.equirect {
		img := rl.LoadImage(s.path)
		if img == nil || img.Width <= 0 || img.Height <= 0 {
			return
		}
		s.tex = rl.LoadTextureCubemap(img, rl.CubemapLayoutAutoDetect)
		rl.UnloadImage(img)
		if !rl.IsTextureValid(s.tex) {
			return
		}
		s.mesh = rl.GenMeshCube(1, 1, 1)
		s.mtl = rl.LoadMaterialDefault()
		rl.SetMaterialTexture(&s.mtl, rl.MapCubemap, s.tex)
		s.loaded = true
		return
	}

	s.tex = rl.LoadTexture(s.path)
	if !rl.IsTextureValid(s.tex) {
		return
	}
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		rl.UnloadTexture(s.tex)
		return
	}
	s.mesh = rl.GenMeshCube(1, 1, 1)
	s.mtl = rl.LoadMaterialDefault()
	s.mtl.Shader = shader
	s.camPosLoc = rl.GetShaderLocation(shader, "cameraPosition")
	s.texLoc = rl.GetShaderLocation(shader, "skybox")
	s.loaded = true
}

// Equirectangular skybox shader: samples a 2D panorama by view direction.
const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  finalColor = texture(skybox, vec2(lon / 6.28318530718 + 0.5, 0.5 - lat / 3.14159265359));
}
`
)

// draw renders the skybox as a large cube centred on the camera.
func (s *skybox) draw(camPos rl.Vector3) {
	s.ensureLoaded()
	if !s.loaded {
		return
	}
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	transform := rl.MatrixMultiply(
		rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale),
		rl.MatrixTranslate(camPos.X, camPos.Y, camPos.Z),
	)
	if s.equirect {
		if s.camPosLoc >= 0 {
			rl.SetShaderValueV(s.mtl.Shader, s.camPosLoc, []float32{camPos.X, camPos.Y, camPos.Z}, rl.ShaderUniformVec3, 1)
		}
		if s.texLoc >= 0 {
			rl.SetShaderValueTexture(s.mtl.Shader, s.texLoc, s.tex)
		}
	}
	rl.DrawMesh(s.mesh, s.mtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}
