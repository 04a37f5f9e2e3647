package mcp

// Static documentation served by the docs:// resources.

const promptingGuide = `# Image Prompting Guide

## Describe scenes, not keywords

State the subject, the environment, and the mood as a sentence. "A weathered
fisherman mending nets at dawn, fog rolling over a harbor" outperforms
"fisherman, nets, fog, harbor".

## Use photographic language

- Shot type: close-up, medium shot, wide establishing shot
- Lens: 35mm environmental, 85mm portrait compression
- Depth of field: shallow f/2.0 with creamy bokeh, deep focus f/11
- Lighting: Rembrandt, butterfly, golden hour backlight, overcast softbox
- Composition: rule of thirds, leading lines, negative space

## Text and logos

Be explicit: give the exact wording, the layout, and demand legibility.
Geometric sans serif with tight kerning reproduces most reliably.

## Editing

Semantic inpainting works best with targeted requests: say what to change and
what to keep. Mention critical details to preserve (faces, logos, colors)
alongside the edit, and provide lighting continuity cues where needed.

## Blending

Describe the spatial layout and relative scale between elements from each
source image. Add lens and lighting cues to harmonize the sources. Two or
three source images give the most predictable results.

## Iterate

Keep what you like and specify small changes between runs rather than
rewriting the whole prompt.
`

const promptingCheatsheet = `{
  "framing_shots": [
    "wide shot, establishing shot, rule of thirds",
    "medium shot, waist-up, centered composition",
    "close-up portrait, head-and-shoulders, eye-level",
    "extreme close-up, macro texture detail"
  ],
  "angles": [
    "low-angle hero shot",
    "high-angle overview",
    "top-down bird's-eye",
    "Dutch tilt"
  ],
  "focal_lengths": {
    "24mm": "wide-angle perspective, strong foreground emphasis",
    "35mm": "environmental portrait, natural perspective",
    "50mm": "standard view, minimal distortion",
    "85mm": "portrait lens, gentle compression",
    "135mm": "telephoto, strong background compression"
  },
  "depth_of_field": [
    "shallow DoF, creamy bokeh, f/1.8",
    "deep focus landscape, f/11",
    "specular bokeh highlights"
  ],
  "lighting_styles": [
    "three-point: key 45 degrees, soft fill, subtle hair light",
    "Rembrandt lighting",
    "butterfly lighting",
    "golden hour warm backlight",
    "blue hour cool ambience",
    "overcast softbox skies"
  ],
  "color_grade": [
    "cinematic teal-and-orange grade, soft film halation",
    "pastel palette, low contrast matte blacks",
    "Kodachrome-inspired colors, subtle grain"
  ],
  "templates": {
    "product_photography": "Studio product photo of a brushed steel smartwatch on matte black acrylic, soft 45 degree key light, 85mm lens, shallow DoF (f/2.8), premium editorial aesthetic",
    "logo_text_accuracy": "Minimalist logo reading 'CYBER POINT' in geometric sans serif, tight kerning, high legibility, monochrome on white, vector-like simplicity"
  }
}`
