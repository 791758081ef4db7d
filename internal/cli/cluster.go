package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Параметры кластера для add-cluster.
const (
	addClusterServeNodes = 3
	addClusterStorage    = "ssd"
	addClusterZone       = "us-central1-c"
)

// NewAddClusterCmd создаёт команду add-cluster: добавление кластера
// в существующий instance.
//
// Если instance не существует, команда сообщает об этом и завершается
// успешно — кластер без instance создать нельзя.
func NewAddClusterCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var instance string
	var cluster string

	cmd := &cobra.Command{
		Use:   "add-cluster",
		Short: "Add a cluster to an existing instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			exists, err := client.InstanceExists(instance)
			if err != nil {
				return err
			}

			if !exists {
				out.Success(fmt.Sprintf("Instance does not exist: %s", instance))
				return nil
			}

			resp, err := client.CreateCluster(instance, CreateClusterRequest{
				Name:       cluster,
				Zone:       addClusterZone,
				Storage:    addClusterStorage,
				ServeNodes: addClusterServeNodes,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Cluster created: %s", resp.Cluster.ID))
			out.Print(
				clusterHeaders(),
				clusterRows([]ClusterResponse{resp.Cluster}),
				resp,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&instance, "instance", "i", "", "Instance name")
	cmd.Flags().StringVarP(&cluster, "cluster", "c", "", "Cluster name")
	cmd.MarkFlagRequired("instance")
	cmd.MarkFlagRequired("cluster")

	return cmd
}

// NewDelClusterCmd создаёт команду del-cluster: удаление кластера.
func NewDelClusterCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var instance string
	var cluster string

	cmd := &cobra.Command{
		Use:   "del-cluster",
		Short: "Delete a cluster from an instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if _, err := client.DeleteCluster(instance, cluster); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Cluster deleted: %s", cluster))
			return nil
		},
	}

	cmd.Flags().StringVarP(&instance, "instance", "i", "", "Instance name")
	cmd.Flags().StringVarP(&cluster, "cluster", "c", "", "Cluster name")
	cmd.MarkFlagRequired("instance")
	cmd.MarkFlagRequired("cluster")

	return cmd
}
