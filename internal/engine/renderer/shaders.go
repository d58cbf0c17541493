package renderer

// Particle shader. Faces are lit by a fixed head-on light so flat quads
// and spheres read the same from any angle.
const particleVertexShader = `#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uMVP;

out float vShade;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vShade = 0.8 + 0.2 * abs(normalize(aNormal).y);
}
`

const particleFragmentShader = `#version 410 core

in float vShade;

uniform vec4 uTint;

out vec4 FragColor;

void main() {
	FragColor = vec4(uTint.rgb * vShade, uTint.a);
}
`

// Grid shader for colored line segments.
const lineVertexShader = `#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform mat4 uMVP;

out vec3 vColor;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vColor = aColor;
}
`

const lineFragmentShader = `#version 410 core

in vec3 vColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(vColor, 1.0);
}
`
