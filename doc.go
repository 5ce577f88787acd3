/*
go-armorvis overlays armor plate keypoint detections onto a live video stream
using GoCV.  A Detector runs inference on frames resized to the fixed model
resolution, the results are mapped back to the source frame resolution and
rendered as an oriented quadrilateral with keypoint markers and a label of
class, color and confidence.

The playback package drives the capture, inference and render loop with
pause, snapshot and quit key controls.  See the example subdirectory for a
complete program.
*/
package armorvis
