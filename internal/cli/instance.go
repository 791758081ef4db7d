package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// Параметры кластеров, создаваемых командами CLI.
const (
	prodServeNodes = 3
	prodStorage    = "ssd"
	prodZone       = "us-central1-f"

	devStorage = "hdd"
	devZone    = "us-central1-f"
)

// NewRunCmd создаёт команду run: базовый сценарий работы с instance.
//
// Создаёт PRODUCTION instance, если его ещё нет, затем показывает
// список instances, сам instance и его кластеры.
func NewRunCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var instance string
	var cluster string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create a PRODUCTION instance if absent and show its details",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			exists, err := client.InstanceExists(instance)
			if err != nil {
				return err
			}

			if exists {
				out.Success(fmt.Sprintf("Instance %s already exists.", instance))
			} else {
				out.Success(fmt.Sprintf("Creating a PRODUCTION Instance: %s", instance))
				_, err := client.CreateInstance(CreateInstanceRequest{
					Name: instance,
					Type: "PRODUCTION",
					Labels: map[string]string{
						"env": "prod",
					},
					Clusters: []CreateClusterRequest{{
						Name:       cluster,
						Zone:       prodZone,
						Storage:    prodStorage,
						ServeNodes: prodServeNodes,
					}},
				})
				if err != nil {
					return err
				}
				out.Success(fmt.Sprintf("Created Instance: %s", instance))
			}

			instances, err := client.ListInstances()
			if err != nil {
				return err
			}
			out.Success("Listing Instances:")
			out.Print(instanceHeaders(), instanceRows(instances), instances)

			inst, err := client.GetInstance(instance)
			if err != nil {
				return err
			}
			out.Success(fmt.Sprintf("Get Instance: %s", instance))
			out.Print(instanceHeaders(), instanceRows([]InstanceResponse{*inst}), inst)

			clusters, err := client.ListClusters(instance)
			if err != nil {
				return err
			}
			out.Success(fmt.Sprintf("Listing Clusters of %s:", instance))
			out.Print(clusterHeaders(), clusterRows(clusters), clusters)

			return nil
		},
	}

	cmd.Flags().StringVarP(&instance, "instance", "i", "", "Instance name")
	cmd.Flags().StringVarP(&cluster, "cluster", "c", "", "Cluster name")
	cmd.MarkFlagRequired("instance")
	cmd.MarkFlagRequired("cluster")

	return cmd
}

// NewDevInstanceCmd создаёт команду dev-instance: DEVELOPMENT instance.
//
// Количество узлов для DEVELOPMENT instance не задаётся — им управляет
// сервис.
func NewDevInstanceCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var instance string
	var cluster string

	cmd := &cobra.Command{
		Use:   "dev-instance",
		Short: "Create a DEVELOPMENT instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			out.Success(fmt.Sprintf("Creating a DEVELOPMENT Instance: %s", instance))
			resp, err := client.CreateInstance(CreateInstanceRequest{
				Name: instance,
				Type: "DEVELOPMENT",
				Labels: map[string]string{
					"env": "dev",
				},
				Clusters: []CreateClusterRequest{{
					Name:    cluster,
					Zone:    devZone,
					Storage: devStorage,
				}},
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Created development instance: %s", instance))
			out.Print(
				instanceHeaders(),
				instanceRows([]InstanceResponse{resp.Instance}),
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

// NewDelInstanceCmd создаёт команду del-instance: удаление instance.
func NewDelInstanceCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var instance string

	cmd := &cobra.Command{
		Use:   "del-instance",
		Short: "Delete an instance and all its clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if _, err := client.DeleteInstance(instance); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Instance deleted: %s", instance))
			return nil
		},
	}

	cmd.Flags().StringVarP(&instance, "instance", "i", "", "Instance name")
	cmd.MarkFlagRequired("instance")

	return cmd
}

// NewInstancesCmd создаёт команду instances: список всех instances.
func NewInstancesCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			instances, err := client.ListInstances()
			if err != nil {
				return err
			}

			out.Print(instanceHeaders(), instanceRows(instances), instances)
			return nil
		},
	}
}

func instanceHeaders() []string {
	return []string{"NAME", "TYPE", "STATE", "CREATED"}
}

func instanceRows(instances []InstanceResponse) [][]string {
	rows := make([][]string, len(instances))
	for i, inst := range instances {
		rows[i] = []string{inst.Name, inst.Type, inst.State, inst.CreatedAt}
	}
	return rows
}

func clusterHeaders() []string {
	return []string{"NAME", "ZONE", "STORAGE", "NODES", "STATE"}
}

func clusterRows(clusters []ClusterResponse) [][]string {
	rows := make([][]string, len(clusters))
	for i, c := range clusters {
		rows[i] = []string{c.Name, c.Zone, c.Storage, strconv.Itoa(c.ServeNodes), c.State}
	}
	return rows
}
