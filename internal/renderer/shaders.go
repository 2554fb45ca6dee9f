package renderer

import (
	"PBRShowcase/internal/logger"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// MaxDirectionalLights must match MAX_DIR_LIGHTS in the fragment shader.
const MaxDirectionalLights = 4

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	vertexSource   string
	fragmentSource string
	program        uint32
	isCompiled     bool
	Uniforms       *UniformCache
}

func NewShader(vertexSource, fragmentSource string) Shader {
	return Shader{vertexSource: vertexSource, fragmentSource: fragmentSource}
}

func InitStandardShader() Shader {
	return NewShader(vertexShaderSource, fragmentShaderSource)
}

// InitDepthShader writes light space depth only, for shadow maps.
func InitDepthShader() Shader {
	return NewShader(depthVertexShaderSource, depthFragmentShaderSource)
}

func (shader *Shader) Compile() error {
	vs, err := GenShader(shader.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	fs, err := GenShader(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return err
	}
	program, err := GenShaderProgram(vs, fs)
	if err != nil {
		return err
	}
	shader.program = program
	shader.Uniforms = NewUniformCache(program)
	shader.isCompiled = true
	return nil
}

func (shader *Shader) IsValid() bool {
	return shader.isCompiled
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Delete() {
	if shader.isCompiled {
		gl.DeleteProgram(shader.program)
		shader.isCompiled = false
	}
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Uint32("shaderType", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("compile shader type %d: %s", shaderType, log)
	}
	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("link program: %s", log)
	}
	logger.Log.Debug("Shader program linked", zap.Uint32("program", program))
	return program, nil
}

var vertexShaderSource = `#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;
layout(location = 2) in vec3 inNormal;

uniform mat4 model;
uniform mat4 viewProjection;

out vec2 fragTexCoord;
out vec3 Normal;
out vec3 FragPos;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    FragPos = world.xyz;
    Normal = mat3(transpose(inverse(model))) * inNormal;
    fragTexCoord = inTexCoord;
    gl_Position = viewProjection * world;
}
`

var depthVertexShaderSource = `#version 410 core

layout(location = 0) in vec3 inPosition;

uniform mat4 model;
uniform mat4 lightSpace;

void main() {
    gl_Position = lightSpace * model * vec4(inPosition, 1.0);
}
`

var depthFragmentShaderSource = `#version 410 core

void main() {
}
`

var fragmentShaderSource = `#version 410 core
#define MAX_DIR_LIGHTS 4
#define MAX_SHADOWS 2
#define PI 3.14159265359

in vec2 fragTexCoord;
in vec3 Normal;
in vec3 FragPos;

out vec4 FragColor;

uniform vec3 viewPos;

// Material
uniform int shading; // 0 standard, 1 phong
uniform vec3 diffuseColor;
uniform float roughness;
uniform float metalness;
uniform float exposure;
uniform float alpha;
uniform float shininess;
uniform float envMapIntensity;
uniform int envMapping; // 1 reflection, 2 refraction
uniform float envMaxLod;

uniform bool hasMap;
uniform bool hasNormalMap;
uniform bool hasRoughnessMap;
uniform bool hasMetalnessMap;
uniform bool hasAOMap;
uniform bool hasEnvMap;
uniform sampler2D mapSampler;
uniform sampler2D normalSampler;
uniform sampler2D roughnessSampler;
uniform sampler2D metalnessSampler;
uniform sampler2D aoSampler;
uniform samplerCube envSampler;

// Lights
uniform vec3 ambientColor;
uniform bool hasHemisphere;
uniform vec3 hemiSky;
uniform vec3 hemiGround;
uniform vec3 hemiDirection;
uniform int numDirLights;
uniform vec3 dirLightDirection[MAX_DIR_LIGHTS];
uniform vec3 dirLightColor[MAX_DIR_LIGHTS];

// Shadows
uniform bool receiveShadow;
uniform int dirShadow[MAX_DIR_LIGHTS]; // index into lightSpace, -1 for none
uniform mat4 lightSpace[MAX_SHADOWS];
uniform sampler2D shadowMap0;
uniform sampler2D shadowMap1;

// Fog
uniform bool hasFog;
uniform vec3 fogColor;
uniform float fogNear;
uniform float fogFar;

vec3 srgbToLinear(vec3 c) {
    return pow(c, vec3(2.2));
}

// Normal mapping without precomputed tangents.
vec3 perturbNormal(vec3 N, vec3 p, vec2 uv) {
    vec3 mapN = texture(normalSampler, uv).xyz * 2.0 - 1.0;
    vec3 dp1 = dFdx(p);
    vec3 dp2 = dFdy(p);
    vec2 duv1 = dFdx(uv);
    vec2 duv2 = dFdy(uv);
    vec3 dp2perp = cross(dp2, N);
    vec3 dp1perp = cross(N, dp1);
    vec3 T = dp2perp * duv1.x + dp1perp * duv2.x;
    vec3 B = dp2perp * duv1.y + dp1perp * duv2.y;
    float invmax = inversesqrt(max(dot(T, T), dot(B, B)));
    mat3 TBN = mat3(T * invmax, B * invmax, N);
    return normalize(TBN * mapN);
}

float shadowDepth(int k, vec2 uv) {
    return k == 0 ? texture(shadowMap0, uv).r : texture(shadowMap1, uv).r;
}

// 3x3 percentage closer filtering. 1.0 is fully lit.
float shadowFactor(int k, vec3 N, vec3 L) {
    vec4 p = lightSpace[k] * vec4(FragPos, 1.0);
    vec3 c = p.xyz / p.w * 0.5 + 0.5;
    if (c.z > 1.0) {
        return 1.0;
    }
    float bias = max(0.002 * (1.0 - dot(N, L)), 0.0005);
    vec2 texel = 1.0 / vec2(k == 0 ? textureSize(shadowMap0, 0) : textureSize(shadowMap1, 0));
    float lit = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            lit += c.z - bias > shadowDepth(k, c.xy + vec2(x, y) * texel) ? 0.0 : 1.0;
        }
    }
    return lit / 9.0;
}

float distributionGGX(float NdotH, float r) {
    float a = r * r;
    float a2 = a * a;
    float d = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d + 1e-5);
}

float geometrySmith(float NdotV, float NdotL, float r) {
    float k = (r + 1.0) * (r + 1.0) / 8.0;
    float gv = NdotV / (NdotV * (1.0 - k) + k);
    float gL = NdotL / (NdotL * (1.0 - k) + k);
    return gv * gL;
}

vec3 fresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

void main() {
    vec3 albedo = diffuseColor;
    if (hasMap) {
        albedo *= srgbToLinear(texture(mapSampler, fragTexCoord).rgb);
    }
    float rough = roughness;
    if (hasRoughnessMap) {
        rough *= texture(roughnessSampler, fragTexCoord).g;
    }
    rough = clamp(rough, 0.04, 1.0);
    float metal = metalness;
    if (hasMetalnessMap) {
        metal *= texture(metalnessSampler, fragTexCoord).b;
    }
    float ao = 1.0;
    if (hasAOMap) {
        ao = texture(aoSampler, fragTexCoord).r;
    }

    vec3 N = normalize(Normal);
    if (hasNormalMap) {
        N = perturbNormal(N, FragPos, fragTexCoord);
    }
    vec3 V = normalize(viewPos - FragPos);
    float NdotV = max(dot(N, V), 1e-4);

    vec3 color = vec3(0.0);
    vec3 F0 = mix(vec3(0.04), albedo, metal);

    for (int i = 0; i < numDirLights && i < MAX_DIR_LIGHTS; i++) {
        vec3 L = normalize(-dirLightDirection[i]);
        float NdotL = max(dot(N, L), 0.0);
        if (NdotL <= 0.0) {
            continue;
        }
        float shadow = 1.0;
        if (receiveShadow && dirShadow[i] >= 0) {
            shadow = shadowFactor(dirShadow[i], N, L);
        }
        vec3 H = normalize(V + L);
        if (shading == 1) {
            float spec = pow(max(dot(N, H), 0.0), shininess);
            color += (albedo * NdotL + vec3(0.2) * spec) * dirLightColor[i] * shadow;
            continue;
        }
        float NdotH = max(dot(N, H), 0.0);
        vec3 F = fresnelSchlick(max(dot(H, V), 0.0), F0);
        float D = distributionGGX(NdotH, rough);
        float G = geometrySmith(NdotV, NdotL, rough);
        vec3 specular = D * G * F / (4.0 * NdotV * NdotL + 1e-4);
        vec3 kD = (vec3(1.0) - F) * (1.0 - metal);
        color += (kD * albedo / PI + specular) * dirLightColor[i] * NdotL * PI * shadow;
    }

    vec3 indirect = ambientColor;
    if (hasHemisphere) {
        float w = 0.5 * dot(N, normalize(hemiDirection)) + 0.5;
        indirect += mix(hemiGround, hemiSky, w);
    }
    vec3 diffuseWeight = shading == 1 ? vec3(1.0) : (1.0 - metal) * vec3(1.0);
    color += indirect * albedo * diffuseWeight * ao;

    if (hasEnvMap && shading == 0) {
        vec3 I = -V;
        vec3 dir = envMapping == 2 ? refract(I, N, 0.98) : reflect(I, N);
        vec3 env = srgbToLinear(textureLod(envSampler, dir, rough * envMaxLod).rgb);
        vec3 F = fresnelSchlick(NdotV, F0);
        color += env * F * envMapIntensity * ao;
    }

    color *= exposure;

    if (hasFog) {
        float dist = length(viewPos - FragPos);
        float f = clamp((dist - fogNear) / max(fogFar - fogNear, 1e-4), 0.0, 1.0);
        color = mix(color, srgbToLinear(fogColor), f);
    }

    FragColor = vec4(pow(color, vec3(1.0 / 2.2)), alpha);
}
`
