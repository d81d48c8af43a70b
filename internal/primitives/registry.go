package primitives

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// cached holds mesh and material for a primitive. Created lazily on first Draw.
// texturedMtl is used when drawing with an albedo texture (same mesh, different material).
type cached struct {
	mesh        rl.Mesh
	mtl         rl.Material
	texturedMtl rl.Material
}

// Registry owns the globe mesh and its materials and draws the marker shapes. Meshes are created
// on first use so that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache    map[string]cached
	viewPos  [3]float32 // camera position, set each frame for lighting
	lightDir [3]float32 // direction to light (normalized), set each frame
}

// NewRegistry returns a registry with nothing loaded yet.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[string]cached),
		lightDir: normalize([3]float32{-3, 3, 4}),
	}
}

// SetView sets camera position and direction-to-light for this frame. Call once per frame
// before drawing the globe.
func (r *Registry) SetView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = normalize(lightDir)
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// Globe mesh resolution and the untextured fallback colour.
const (
	globeRadius = 0.5
	globeRings  = 64
	globeSlices = 64
)

var globeFallbackColor = rl.NewColor(40, 70, 120, 255)

// ensureGlobe creates the sphere mesh and both materials if not yet cached.
func (r *Registry) ensureGlobe() cached {
	if c, ok := r.cache["globe"]; ok {
		return c
	}
	mesh := rl.GenMeshSphere(globeRadius, globeRings, globeSlices)
	mtl := rl.LoadMaterialDefault()
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = globeFallbackColor
	}
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	texturedMtl := rl.LoadMaterialDefault()
	if albedo := texturedMtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.White
	}
	if ts := rl.LoadShaderFromMemory(litVS, globeFS); rl.IsShaderValid(ts) {
		texturedMtl.Shader = ts
	}
	c := cached{mesh: mesh, mtl: mtl, texturedMtl: texturedMtl}
	r.cache["globe"] = c
	return c
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragLocal;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragLocal = vertexPosition;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragLocal;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
	// globeFS derives texture coordinates from the local position rather than the mesh UVs:
	// u runs from -X through +Z around the Y axis, v from the north pole down. uOffset shifts u
	// and the texture repeats horizontally.
	globeFS = `#version 330
in vec3 fragPosition;
in vec3 fragLocal;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform float uOffset;
uniform sampler2D albedoMap;
out vec4 finalColor;
const float PI = 3.14159265359;
void main() {
  vec3 p = normalize(fragLocal);
  float u = fract(atan(p.z, -p.x) / (2.0 * PI) + uOffset);
  float v = acos(clamp(p.y, -1.0, 1.0)) / PI;
  vec4 tint = texture(albedoMap, vec2(u, v)) * colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)

// Light settings: a white directional light over a dim grey ambient.
var (
	defaultAmbient    = [4]float32{0.21, 0.21, 0.21, 1.0}
	defaultLightColor = [3]float32{1.0, 1.0, 1.0}
)

const (
	defaultLightIntensity   = float32(1.1)
	defaultSpecularPower    = float32(50.0)
	defaultSpecularStrength = float32(0.2)
)

// setLitShaderUniforms sets viewPos, lightDir, ambient, light color/intensity, and specular on the given shader (cgo-safe: local arrays).
func (r *Registry) setLitShaderUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := [3]float32{r.viewPos[0], r.viewPos[1], r.viewPos[2]}
	lightDir := [3]float32{r.lightDir[0], r.lightDir[1], r.lightDir[2]}
	amb := defaultAmbient
	lightColor := defaultLightColor
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightColor[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultLightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularStrength}, rl.ShaderUniformFloat)
	}
}

// DrawGlobe draws the globe sphere with the given model transform. With a valid texture the
// surface is textured and shifted horizontally by uOffset texture widths; otherwise it is drawn in
// a flat ocean colour. Must be called between BeginMode3D and EndMode3D.
func (r *Registry) DrawGlobe(model rl.Matrix, tex rl.Texture2D, uOffset float32) {
	c := r.ensureGlobe()
	if !rl.IsTextureValid(tex) {
		r.setLitShaderUniforms(c.mtl.Shader)
		rl.DrawMesh(c.mesh, c.mtl, model)
		return
	}
	rl.SetMaterialTexture(&c.texturedMtl, rl.MapAlbedo, tex)
	r.setLitShaderUniforms(c.texturedMtl.Shader)
	if loc := rl.GetShaderLocation(c.texturedMtl.Shader, "uOffset"); loc >= 0 {
		rl.SetShaderValue(c.texturedMtl.Shader, loc, []float32{uOffset}, rl.ShaderUniformFloat)
	}
	rl.DrawMesh(c.mesh, c.texturedMtl, model)
}

// circleSegments is the tessellation of rings and discs.
const circleSegments = 32

// DrawRing draws a flat annulus in the XY plane of model, lifted z along +Z, visible from both
// sides.
func DrawRing(model rl.Matrix, inner, outer, z float32, color rl.Color) {
	withMatrix(model, func() {
		for i := 0; i < circleSegments; i++ {
			s0, c0 := math32.Sincos(2 * math32.Pi * float32(i) / circleSegments)
			s1, c1 := math32.Sincos(2 * math32.Pi * float32(i+1) / circleSegments)
			a := rl.NewVector3(c0*inner, s0*inner, z)
			b := rl.NewVector3(c0*outer, s0*outer, z)
			c := rl.NewVector3(c1*outer, s1*outer, z)
			d := rl.NewVector3(c1*inner, s1*inner, z)
			rl.DrawTriangle3D(a, b, c, color)
			rl.DrawTriangle3D(a, c, d, color)
		}
	})
}

// DrawDisc draws a filled circle in the XY plane of model, lifted z along +Z.
func DrawDisc(model rl.Matrix, radius, z float32, color rl.Color) {
	withMatrix(model, func() {
		center := rl.NewVector3(0, 0, z)
		for i := 0; i < circleSegments; i++ {
			s0, c0 := math32.Sincos(2 * math32.Pi * float32(i) / circleSegments)
			s1, c1 := math32.Sincos(2 * math32.Pi * float32(i+1) / circleSegments)
			rl.DrawTriangle3D(center, rl.NewVector3(c0*radius, s0*radius, z), rl.NewVector3(c1*radius, s1*radius, z), color)
		}
	})
}

func withMatrix(model rl.Matrix, draw func()) {
	rl.DisableBackfaceCulling()
	rl.PushMatrix()
	rl.MultMatrix(model)
	draw()
	rl.PopMatrix()
	rl.EnableBackfaceCulling()
}
