// Package multiview batches pinhole projection across a rig of calibrated
// cameras. Its centerpiece, CameraSet, projects one world point through every
// camera at once and stacks the per-camera Jacobian blocks (pose, point,
// calibration) the way bundle-adjustment linearization consumes them. The
// package also carries the surrounding rig geometry: DLT triangulation,
// lens distortion, and sphere fitting for orbit-style rigs.
package multiview
