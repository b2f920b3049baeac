package scene

const waterVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uViewProj;
uniform float uDetailRepeat;
uniform vec2 uFlow;

out vec2 vTexCoord;

void main() {
    vTexCoord = aTexCoord * uDetailRepeat + uFlow;
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

// Transparency 1.0 means fully transparent, so alpha is its complement.
const waterFragmentShader = `#version 410 core
in vec2 vTexCoord;

uniform sampler2D uWaterTex;
uniform int uUseTexture;
uniform vec3 uWaterColor;
uniform float uTransparency;

out vec4 FragColor;

void main() {
    vec3 base = vec3(1.0);
    if (uUseTexture == 1) {
        base = texture(uWaterTex, vTexCoord).rgb;
    }
    FragColor = vec4(base * uWaterColor, 1.0 - uTransparency);
}
`
