package render

// Uniform names shared by the shader sources and Renderer.
const (
	uniformVolume    = "tex3d"
	uniformTransform = "transform"
	uniformInverse   = "inv_transform"
)

const vertexShaderSource = `#version 330 core
layout (location = 0) in vec3 pos;
layout (location = 1) in vec3 texCoord;

uniform mat4 transform;

out vec3 ndcPosition;
out vec3 textureCoordinates;

void main() {
	gl_Position = transform * vec4(pos, 1.0);
	ndcPosition = gl_Position.xyz;
	textureCoordinates = texCoord;
}
`

// fragmentShaderSource marches 256 steps of 1/256 from the fragment and
// keeps the brightest sample. Sample points are taken back to the unrotated
// object frame with inv_transform and then from [-0.3,0.3] to [0,1].
// MarchMIP is the CPU version of the same loop.
const fragmentShaderSource = `#version 330 core
uniform sampler3D tex3d;
uniform mat4 inv_transform;

in vec3 ndcPosition;
in vec3 textureCoordinates;

out vec4 final_color;

const int STEPS = 256;
const float STEP_SIZE = 1.0 / 256.0;
const float HALF_EXTENT = 0.3;

void main() {
	vec3 ray_dir = -normalize(ndcPosition - vec3(0.0, 0.0, -1.0));
	vec3 ray_origin = ndcPosition;

	float t = 0.0;
	float max_val = 0.0;
	for (int i = 0; i < STEPS; ++i) {
		vec3 sample_pos = ray_origin + ray_dir * t;
		vec3 object_pos = (inv_transform * vec4(sample_pos, 1.0)).xyz;
		vec3 tex_pos = (object_pos + HALF_EXTENT) / (2.0 * HALF_EXTENT);

		max_val = max(max_val, texture(tex3d, tex_pos).r);
		t += STEP_SIZE;
	}

	final_color = vec4(vec3(max_val), 1.0);
}
`
