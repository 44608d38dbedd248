/*
The sync package installs the CASA data repository into a conda environment.

A sync only happens if the environment directory exists. If it doesn't, the
sync is a silent no-op: nothing is created and rsync is never started. This
lets the same invocation run on every host of a deployment, whether or not
the host carries the environment.

If the environment exists, the target directory inside it is created (along
with any missing parents) and rsync is started in it with `.` as the
destination. rsync does all of the transfer work, and its exit status is the
result of the sync. Nothing is retried or rolled back.
*/
package sync
